// Package types defines the shared domain records exchanged between the
// workflow engine, the booking flow, and the collaborator clients:
// properties, search criteria, tour slots, appointments, and chat messages.
package types
