// Package prompt synthesizes the interviewer system prompt from the
// interview configuration. Pure text assembly: every configuration
// combination produces a deterministic, fully-formed prompt.
package prompt

import (
	"fmt"
	"strings"

	"interviewgw/internal/core"
)

const persona = "You are an expert interviewer conducting a realistic mock interview with a candidate."

const coreGuidelines = `Core guidelines:
- Greet the candidate once at the very start of the interview, then never again.
- Ask exactly one question at a time and wait for the candidate's answer.
- Give a brief acknowledgment of each answer before moving to the next question.
- Adapt your questions and depth to the candidate's responses.
- Keep an encouraging but realistic tone throughout.`

// difficultyLabels maps each difficulty to its descriptive label.
var difficultyLabels = map[string]string{
	core.DifficultyBeginner:     "Beginner (Entry Level)",
	core.DifficultyIntermediate: "Intermediate (Mid Level)",
	core.DifficultyAdvanced:     "Advanced (Senior Level)",
}

// difficultyBlocks maps each difficulty to its behavioral instructions.
var difficultyBlocks = map[string]string{
	core.DifficultyBeginner: `Keep questions approachable and focused on fundamentals. When the candidate struggles, offer a small hint before moving on. Be generous with encouragement and avoid piling on edge cases.`,
	core.DifficultyIntermediate: `Balance fundamentals with applied problem-solving. Expect reasonable depth without demanding expert-level nuance, and probe gently when an answer stays on the surface.`,
	core.DifficultyAdvanced: `Ask probing follow-up questions after every substantive answer. Push into complexity analysis, trade-offs, and design decisions, and expect the candidate to defend their choices under scrutiny.`,
}

// typeLabels maps interview-type tags to human-readable labels for
// summary lines. Unrecognized tags fall back to the tag itself in
// display-only lines and contribute no instructional block.
var typeLabels = map[string]string{
	core.TypeCoding:         "Coding",
	core.TypeMultipleChoice: "Multiple Choice",
	core.TypeBehavioral:     "Behavioral",
	core.TypeTechnical:      "Technical",
	core.TypeHR:             "HR",
	core.TypeHiringManager:  "Hiring Manager",
}

const behavioralBlock = `Behavioral section: ask about past experiences and evaluate each answer against the STAR method (Situation, Task, Action, Result). When a part of STAR is missing from an answer, prompt the candidate to fill it in.`

const technicalBlock = `Technical section: ask conceptual technical questions relevant to the role. Verify depth of understanding rather than accepting memorized definitions; ask the candidate to explain the why behind their answers.`

const multipleChoiceBlock = `Multiple choice section: pose questions with lettered options (A, B, C, D), exactly one of which is correct. After the candidate picks an option, reveal the correct answer and explain why it is correct and the others are not.`

const hrBlock = `HR section: cover motivation for the role, salary and availability expectations, and culture fit, in a conversational tone.`

const hiringManagerBlock = `Hiring manager section: focus on role fit, ownership, collaboration with other teams, and how the candidate handles shifting priorities and conflict.`

// codingBlock returns the coding instructions, branched by difficulty.
func codingBlock(difficulty string) string {
	base := "Coding section: present concrete programming problems, ask the candidate to talk through their approach before writing code, and evaluate their problem-solving process."
	switch difficulty {
	case core.DifficultyBeginner:
		return base + " Start with easy warm-up problems and guide the candidate through their solution step by step."
	case core.DifficultyAdvanced:
		return base + " After each solution, require a time and space complexity analysis, discuss trade-offs between alternatives, and ask the candidate to optimize."
	default:
		return base + " Use standard interview problems and evaluate both the chosen approach and its complexity."
	}
}

// typeBlock returns the instructional block for a single interview type,
// or "" for unrecognized tags.
func typeBlock(tag, difficulty string) string {
	switch tag {
	case core.TypeCoding:
		return codingBlock(difficulty)
	case core.TypeBehavioral:
		return behavioralBlock
	case core.TypeTechnical:
		return technicalBlock
	case core.TypeMultipleChoice:
		return multipleChoiceBlock
	case core.TypeHR:
		return hrBlock
	case core.TypeHiringManager:
		return hiringManagerBlock
	default:
		return ""
	}
}

// normalizeDifficulty applies the intermediate fallback for unrecognized
// or missing difficulty values.
func normalizeDifficulty(difficulty string) string {
	if _, ok := difficultyLabels[difficulty]; !ok {
		return core.DifficultyIntermediate
	}
	return difficulty
}

// labelFor returns the display label for a type tag, falling back to the
// tag itself.
func labelFor(tag string) string {
	if label, ok := typeLabels[tag]; ok {
		return label
	}
	return tag
}

// durationText renders the interview duration, defaulting to "30 minute"
// when unspecified.
func durationText(duration int) string {
	if duration <= 0 {
		return "30 minute"
	}
	return fmt.Sprintf("%d minute", duration)
}

// Build assembles the system prompt for the given interview configuration.
func Build(cfg core.InterviewConfig) string {
	difficulty := normalizeDifficulty(cfg.Difficulty)

	labels := make([]string, 0, len(cfg.InterviewTypes))
	for _, tag := range cfg.InterviewTypes {
		labels = append(labels, labelFor(tag))
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n")
	if len(labels) > 0 {
		fmt.Fprintf(&b, "This is a %s %s interview at the %s level (difficulty: %s).\n",
			durationText(cfg.Duration), strings.Join(labels, " + "), difficultyLabels[difficulty], difficulty)
	} else {
		fmt.Fprintf(&b, "This is a %s interview at the %s level (difficulty: %s).\n",
			durationText(cfg.Duration), difficultyLabels[difficulty], difficulty)
	}

	if jd := strings.TrimSpace(cfg.JobDescription); jd != "" {
		b.WriteString("\nThe candidate is interviewing for the following position:\n")
		b.WriteString(jd)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(coreGuidelines)
	b.WriteString("\n\n")
	b.WriteString(difficultyBlocks[difficulty])

	for _, tag := range cfg.InterviewTypes {
		block := typeBlock(tag, difficulty)
		if block == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	if len(cfg.InterviewTypes) > 1 {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "This is a hybrid interview combining: %s. Announce this combined structure to the candidate at the start, and state explicitly each time you transition from one section to the next.",
			strings.Join(labels, ", "))
	}

	b.WriteString("\n")
	return b.String()
}
