// Package returns provides the domain model for warehouse returns.
//
// The package includes:
//   - Return: the aggregate root tying one customer return to one order and
//     one carrier shipment (AWB), owning its item lines
//   - Status: a state machine enforcing monotonic forward transitions
//     Pending -> InProgress -> Completed, with Discrepancy reachable from
//     any non-terminal state and Reopen as the only sanctioned backward move
//   - ReturnItem and Condition: intake-time line records
//
// Key business rules:
//   - a Return always references exactly one existing order
//   - carrier events never move a return backward; regressions are rejected
//   - item lines are recorded at intake and frozen once the return completes
//   - completing a return stamps its verification time
package returns
