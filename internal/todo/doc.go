// Package todo holds the in-memory task list and its mutation rules.
//
// A List is an ordered sequence of tasks addressed by position:
//
//	0  Buy milk      2024-01-01  High    Pending
//	1  Call dentist  2024-01-03  Low     Completed
//
// Positions are zero-based and always match display order. Deleting a task
// shifts every later task down by one.
//
// # Validation
//
// Add trims the name and due date and rejects empty values with a
// *ValidationError. Priority must be one of High, Medium or Low.
// Tasks seeded through NewList are taken as-is, since persisted data
// is not re-validated.
//
// # Status Values
//
//   - "Pending": the task is open
//   - "Completed": the task was marked complete
//
// There is no way back from Completed to Pending.
package todo
