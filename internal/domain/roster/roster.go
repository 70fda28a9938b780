// Package roster holds the participant snapshot the core reads. Roster
// bookkeeping (onboarding, approval, cohort advancement) happens outside
// the core; this package only models what the resolver hands back.
package roster

// Participant is one enrolled student as seen by the roster collaborator.
type Participant struct {
	ID         string `json:"id"`
	RollNo     string `json:"roll_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
	Section    string `json:"section"`
}
