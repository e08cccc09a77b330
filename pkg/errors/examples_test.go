package errors_test

import (
	"fmt"

	"github.com/agentstation/shelf/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := &errors.NotFoundError{
		Resource: "item",
		ID:       "17",
	}

	if errors.IsNotFound(err) {
		fmt.Println("Item not found")
	}

	// Output: Item not found
}

// Example_editBoundary shows how a rejected edit is reported to the caller.
func Example_editBoundary() {
	var err error = errors.NewInvalidEditValueError("stock", "12a", "not a number")

	switch {
	case errors.IsInvalidEditValue(err):
		fmt.Println("rejected:", err)
	default:
		fmt.Println("accepted")
	}

	// Output: rejected: invalid value "12a" for stock: not a number
}
