// Package services contains the core business logic.
//
// Services implement the driving ports and depend only on domain types and
// driven ports. They are wired together by the composition root in cmd.
package services
