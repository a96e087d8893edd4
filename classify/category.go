package classify

// Category is the fixed bucket a failure is classified into.
type Category string

const (
	Network        Category = "network"
	Validation     Category = "validation"
	Authentication Category = "authentication"
	Authorization  Category = "authorization"
	Server         Category = "server"
	Client         Category = "client"
	Unknown        Category = "unknown"
)

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{Network, Validation, Authentication, Authorization, Server, Client, Unknown}
}

// Remediation is the follow-up a category suggests beyond showing the message.
type Remediation string

const (
	None           Remediation = "none"
	Reauthenticate Remediation = "reauthenticate"
	Retry          Remediation = "retry"
)

// RemediationFor returns the suggested remediation for a category.
func RemediationFor(c Category) Remediation {
	switch c {
	case Authentication:
		return Reauthenticate
	case Network, Server:
		return Retry
	default:
		return None
	}
}

// categoryForStatus maps an HTTP status to a category. ok is false outside 4xx and 5xx.
func categoryForStatus(status int) (Category, bool) {
	switch {
	case status == 401:
		return Authentication, true
	case status == 403:
		return Authorization, true
	case status == 422:
		return Validation, true
	case status >= 400 && status < 500:
		return Client, true
	case status >= 500 && status < 600:
		return Server, true
	default:
		return "", false
	}
}
