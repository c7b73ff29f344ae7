package recommender

import (
	"fmt"
	"strings"

	"github.com/skillcompass/skillcompass/domain/profile"
	"github.com/skillcompass/skillcompass/domain/recommend"
	"github.com/skillcompass/skillcompass/infrastructure/provider"
)

// Prompt context bounds. Only the most relevant slice of the profile goes
// into the prompt so that token usage stays flat as profiles grow.
const (
	// MaxPromptCourses bounds how many held courses are listed.
	MaxPromptCourses = 5

	// MaxPromptSkills bounds how many skills are listed.
	MaxPromptSkills = 10

	// MaxPromptHistory bounds how many history entries are listed, most
	// recent first.
	MaxPromptHistory = 3
)

// PromptBounds carries the context bounds for prompt construction.
// Overridable per generator for experimentation.
type PromptBounds struct {
	Courses int
	Skills  int
	History int
}

// DefaultPromptBounds returns the standard bounds.
func DefaultPromptBounds() PromptBounds {
	return PromptBounds{
		Courses: MaxPromptCourses,
		Skills:  MaxPromptSkills,
		History: MaxPromptHistory,
	}
}

const trajectorySystemPrompt = `You are a career advisor for a talent management platform.
Given a user's professional profile, propose a realistic multi-step career trajectory.
Respond with JSON only, no prose and no markdown, in this exact shape:
{"steps":[{"role":"...","description":"...","rationale":"...","estimated_months":12}]}`

const courseCertSystemPrompt = `You are a learning advisor for a talent management platform.
Given a user's professional profile and shortlists of candidate courses and certifications,
recommend the most valuable ones with an individual rationale and a match percentage (0-100).
Only recommend items from the shortlists.
Respond with JSON only, no prose and no markdown, in this exact shape:
{"courses":[{"name":"...","description":"...","rationale":"...","match_percent":85}],"certifications":[{"name":"...","description":"...","rationale":"...","match_percent":85}]}`

const roleSystemPrompt = `You are a career advisor for a talent management platform.
Given a user's professional profile and a shortlist of open roles,
recommend the best-fitting roles with an individual rationale and a match percentage (0-100).
Only recommend roles from the shortlist.
Respond with JSON only, no prose and no markdown, in this exact shape:
{"roles":[{"name":"...","description":"...","rationale":"...","match_percent":85}]}`

// trajectoryPrompt builds the messages for a trajectory generation.
func trajectoryPrompt(user profile.UserProfile, bounds PromptBounds) []provider.Message {
	var b strings.Builder
	writeProfileContext(&b, user, bounds)
	b.WriteString("\nPropose the next steps of this user's career trajectory.\n")

	return []provider.Message{
		provider.SystemMessage(trajectorySystemPrompt),
		provider.UserMessage(b.String()),
	}
}

// courseCertPrompt builds the messages for a course and certification
// generation from the ranked shortlists.
func courseCertPrompt(user profile.UserProfile, topCourses, topCerts []recommend.RankedCandidate, bounds PromptBounds) []provider.Message {
	var b strings.Builder
	writeProfileContext(&b, user, bounds)
	writeCandidates(&b, "Candidate courses", topCourses)
	writeCandidates(&b, "Candidate certifications", topCerts)
	b.WriteString("\nRecommend the courses and certifications most worth pursuing next.\n")

	return []provider.Message{
		provider.SystemMessage(courseCertSystemPrompt),
		provider.UserMessage(b.String()),
	}
}

// rolePrompt builds the messages for a role generation from the ranked
// shortlist.
func rolePrompt(user profile.UserProfile, topRoles []recommend.RankedCandidate, bounds PromptBounds) []provider.Message {
	var b strings.Builder
	writeProfileContext(&b, user, bounds)
	writeCandidates(&b, "Candidate roles", topRoles)
	b.WriteString("\nRecommend the open roles this user is best positioned for.\n")

	return []provider.Message{
		provider.SystemMessage(roleSystemPrompt),
		provider.UserMessage(b.String()),
	}
}

// writeProfileContext renders the bounded profile section shared by all
// three prompts.
func writeProfileContext(b *strings.Builder, user profile.UserProfile, bounds PromptBounds) {
	b.WriteString("User profile:\n")
	if role := strings.TrimSpace(user.CurrentRole()); role != "" {
		fmt.Fprintf(b, "Current role: %s\n", role)
	}

	if skills := user.SkillNames(); len(skills) > 0 {
		fmt.Fprintf(b, "Skills: %s\n", strings.Join(head(skills, bounds.Skills), ", "))
	}

	if courses := user.Courses(); len(courses) > 0 {
		names := make([]string, 0, len(courses))
		for _, c := range courses {
			names = append(names, c.Name())
		}
		fmt.Fprintf(b, "Completed courses: %s\n", strings.Join(tail(names, bounds.Courses), ", "))
	}

	if certs := user.Certifications(); len(certs) > 0 {
		names := make([]string, 0, len(certs))
		for _, c := range certs {
			names = append(names, c.Name())
		}
		fmt.Fprintf(b, "Held certifications: %s\n", strings.Join(names, ", "))
	}

	if history := user.History(); len(history) > 0 {
		b.WriteString("Professional history:\n")
		// Most recent entries last in the profile; keep the tail.
		for _, h := range tail(history, bounds.History) {
			if rendered := h.Rendered(); rendered != "" {
				fmt.Fprintf(b, "- %s\n", rendered)
			}
		}
	}
}

// writeCandidates renders a ranked shortlist section.
func writeCandidates(b *strings.Builder, heading string, candidates []recommend.RankedCandidate) {
	if len(candidates) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (ranked by fit):\n", heading)
	for _, c := range candidates {
		item := c.Item()
		line := item.Name()
		if cat := item.Category(); cat != "" {
			line += " [" + cat + "]"
		}
		if prov := item.Provider(); prov != "" {
			line += " by " + prov
		}
		fmt.Fprintf(b, "- %s (fit %.2f)\n", line, c.Score())
	}
}

// head returns the first n elements of s.
func head[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// tail returns the last n elements of s.
func tail[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
