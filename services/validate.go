package services

import "strings"

// Naming rules are enforced on explicit creates only; read and delete paths
// accept whatever the server accepts.

const (
	maxDatabaseNameBytes   = 64
	maxCollectionNameBytes = 120

	invalidDatabaseChars = "/\\. \"$*<>:|?"
)

var reservedDatabaseNames = map[string]bool{
	"admin":  true,
	"local":  true,
	"config": true,
}

func validateDatabaseName(name string) error {
	if name == "" {
		return &ValidationError{Name: name, Reason: "database name cannot be empty"}
	}
	if len(name) > maxDatabaseNameBytes {
		return &ValidationError{Name: name, Reason: "database name cannot exceed 64 bytes"}
	}
	if reservedDatabaseNames[name] {
		return &ValidationError{Name: name, Reason: "database name is reserved"}
	}
	if strings.ContainsAny(name, invalidDatabaseChars) || strings.ContainsRune(name, '\x00') {
		return &ValidationError{Name: name, Reason: "database name contains invalid characters"}
	}
	if name != strings.ToLower(name) {
		return &ValidationError{Name: name, Reason: "database name must be lowercase"}
	}
	return nil
}

func validateCollectionName(name string) error {
	if name == "" {
		return &ValidationError{Name: name, Reason: "collection name cannot be empty"}
	}
	if len(name) > maxCollectionNameBytes {
		return &ValidationError{Name: name, Reason: "collection name cannot exceed 120 bytes"}
	}
	if strings.HasPrefix(name, "system.") {
		return &ValidationError{Name: name, Reason: "collection name cannot start with 'system.'"}
	}
	if strings.ContainsRune(name, '$') || strings.ContainsRune(name, '\x00') {
		return &ValidationError{Name: name, Reason: "collection name cannot contain '$' or null characters"}
	}
	return nil
}
