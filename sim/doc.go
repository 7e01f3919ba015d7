// Package sim provides the floor-field evacuation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - grid.go, layout.go: the room, its walls, exits and occupancy markers
//   - field.go: the floor field, a multi-source shortest-path distance to the nearest exit
//   - movement.go: the policies that turn the field into a proposed step
//   - simulator.go: the tick protocol (intents, arbitration, evacuation)
//
// # Tick protocol
//
// Each Step shuffles the crowd, polls every agent for an intended cell,
// lifts all agents off the grid, grants uncontested moves, gives each
// contested cell to the contestant closest to an exit, removes agents that
// reached an exit and re-marks occupancy. A tick is atomic to callers.
//
// # Randomness
//
// All draws come from a PartitionedRNG keyed by SimConfig.Seed, split into
// independent per-subsystem streams (placement, phase, order, activity,
// policy). The same seed and config reproduce the same run.
//
// Sub-packages:
//   - sim/trace/: decision trace recording (conflicts, evacuations)
//   - sim/scenario/: YAML/JSON scenario files and presets
//   - sim/store/: SQLite archive of run summaries
package sim
