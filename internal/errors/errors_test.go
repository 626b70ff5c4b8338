package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestStorageReadError(t *testing.T) {
	cause := stdErrors.New("unexpected end of JSON input")
	err := NewStorageReadError("lumina_custom_books", cause)

	expected := `failed to read stored value "lumina_custom_books": unexpected end of JSON input`
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsStorageReadError(err) {
		t.Fatalf("IsStorageReadError returned false for StorageReadError")
	}

	if !stdErrors.Is(err, cause) {
		t.Fatalf("StorageReadError does not unwrap to its cause")
	}

	wrapped := fmt.Errorf("load: %w", err)
	if !IsStorageReadError(wrapped) {
		t.Fatalf("IsStorageReadError returned false for wrapped StorageReadError")
	}
}

func TestControllerError(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := NewControllerError("add book", cause)

	if err.Error() != "add book failed: disk full" {
		t.Fatalf("Error message = %q, want %q", err.Error(), "add book failed: disk full")
	}

	if !IsControllerError(err) {
		t.Fatalf("IsControllerError returned false for ControllerError")
	}

	wrapped := stdErrors.Join(err, stdErrors.New("additional context"))
	if !IsControllerError(wrapped) {
		t.Fatalf("IsControllerError returned false for wrapped ControllerError")
	}

	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("wrapped ControllerError does not unwrap to its cause")
	}
}

func TestIsHelpers_OtherErrors(t *testing.T) {
	plain := stdErrors.New("plain")
	if IsStorageReadError(plain) {
		t.Fatalf("IsStorageReadError returned true for a plain error")
	}
	if IsControllerError(plain) {
		t.Fatalf("IsControllerError returned true for a plain error")
	}
	if IsControllerError(nil) {
		t.Fatalf("IsControllerError returned true for nil")
	}
}
