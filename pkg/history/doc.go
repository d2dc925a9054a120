// Package history records applied clipboard rewrites in a SQLite database.
//
// The database is created and migrated on [Open]. A [Store] implements
// [coordinator.Recorder], so it can be passed to the coordinator directly.
package history
