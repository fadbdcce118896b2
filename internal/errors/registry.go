package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Form Errors (F001-F099)
	// ============================================

	"F001": {
		Category:   CategoryValidation,
		Message:    "The address must end with `@gmail.com`.",
		Detail:     "Usernames are derived from the address by removing the required domain suffix.",
		Suggestion: "Use an address ending with the required domain.",
	},
	"F002": {
		Category: CategoryValidation,
		Message:  "The e-mail addresses do not match.",
		Detail:   "The confirmation field must repeat the e-mail address exactly.",
	},
	"F003": {
		Category:   CategoryValidation,
		Message:    "The username has been taken.",
		Detail:     "The username service reported the username as unavailable, or could not be reached.",
		Suggestion: "Pick a different address.",
	},

	// ============================================
	// Service Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryService,
		Message:  "The username service is unavailable.",
		Detail:   "The backing directory returned an error other than not-found.",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check formbind.json or formbind.yaml against the documented fields.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration file",
		Detail:   "Only .json, .yaml and .yml configuration files are read.",
	},

	// ============================================
	// Protocol Errors (P001-P099)
	// ============================================

	"P001": {
		Category: CategoryProtocol,
		Message:  "Malformed binding message",
	},
	"P002": {
		Category: CategoryProtocol,
		Message:  "Unknown form field",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template. It is meant to be called
// from init functions.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
