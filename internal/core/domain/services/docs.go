// Package services provides stateless domain services for the returns
// reconciliation system. The only service today is StatusMapper, the fixed
// translation table between carrier status codes and local return statuses.
package services
