package agent

// Info holds the directory record for one agent. Used only for
// human-readable alert labels, never for detection logic.
type Info struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
