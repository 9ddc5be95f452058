// Package trajectory owns the canonical vehicle-trajectory data model and the
// analytics derived from it.
//
// Responsibilities: vehicle identity resolution, sampling-interval
// validation, lane neighbor resolution, corridor travel times, the
// macroscopic lane×space×time grid, 1 Hz kinematics, acceleration RMS and
// distribution tables.
// Key types: Record, Dataset, Cell, KinematicSample, TravelTime.
//
// Dependency rule: no file or database I/O in this package. Source readers
// live in internal/ingest and produce []Record; charts live in
// internal/report and consume the tables returned here.
package trajectory
