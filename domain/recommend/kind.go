// Package recommend provides domain types for generated recommendations:
// kinds, ranked candidates, filters and result payloads.
package recommend

// Kind identifies a recommendation variant.
type Kind string

// Kind values.
const (
	KindTrajectory Kind = "trajectory"
	KindCourseCert Kind = "course_cert"
	KindRole       Kind = "role"
)

// Kinds lists every recommendation kind, in a stable order.
func Kinds() []Kind {
	return []Kind{KindTrajectory, KindCourseCert, KindRole}
}
