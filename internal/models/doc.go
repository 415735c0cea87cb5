// Package models defines the core domain models for the expense ledger.
//
// # Models
//
//   - User: a registered account; the authenticated caller.
//   - Group: a set of members who share expenses.
//   - Member: one participant in a group, with display attributes.
//   - Expense: money paid by one member, divided into Splits.
//   - Split: one member's share of an expense, optionally already paid.
//   - Settlement: money that actually changed hands between two members.
//
// # Design Principles
//
//  1. Models are plain data: no behavior beyond small constructors.
//  2. Relationships use ID strings, never pointers, to avoid cycles.
//  3. Records are immutable once handed to the ledger engine; the engine
//     in internal/ledger only ever reads them.
package models
