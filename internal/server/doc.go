// Package server implements the HTTP surface of the task tracker. It wires
// the routes to the employee, task and task-history repositories and wraps
// them in the request id, logging, security header, compression and rate
// limit middleware used by the production binary and the tests.
package server
