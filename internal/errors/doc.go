// Package errors provides structured, actionable error messages for weft.
//
// Every failure the engine reports to a caller maps to a registered code
// that carries:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// Errors are organized into categories:
//   - render: a component failed while the work loop was rendering it
//   - element: a malformed element reached the engine
//   - hook: hook calls diverged between two renders of one component
//   - scheduler: the scheduling adapter cannot serve a request
//   - config: weft.yaml could not be loaded or validated
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E002").
//	    WithLocation("app/counter.go", 15, 2).
//	    WithSuggestion("Call hooks unconditionally at the top of the component")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E002: Hook order changed between renders
//	//
//	//   app/counter.go:15:2
//	//   ...
package errors
