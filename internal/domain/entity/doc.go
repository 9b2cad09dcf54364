// Package entity defines the municipal content records served by the portal: news, events,
// services, authorities, regulations, contacts and the municipality settings record.
// It also owns category catalogues, validation rules and domain-specific errors.
package entity
