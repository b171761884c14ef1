package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken surfaces the unique (owner_id, date, start_time) index:
	// another live booking already holds this slot.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrLockHeld means another admission is mid-flight on the same slot.
	ErrLockHeld = errors.New("slot lock held by another admission")
)
