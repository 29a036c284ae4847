package discovery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const identificationSystemPrompt = `You identify everyday objects in photos for a STEM learning app used by Filipino students. Name the single most prominent object and suggest which STEM category it best connects to.`

const identificationUserMessage = `Identify the main object in this photo. Give its common name as object_label and the STEM category it most naturally connects to (Biology, Chemistry, Physics, Mathematics, Engineering, or Technology) as category_hint.`

const sparkSystemPrompt = `You are an enthusiastic STEM educator creating bite-sized learning content for students in the Philippines. Everything you write must be accurate, age-appropriate, and connected to the student's everyday surroundings.`

func buildSparkUserMessage(id Identification, gradeLevel string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Object: %s\n", id.ObjectLabel))
	b.WriteString(fmt.Sprintf("Category hint: %s\n", id.CategoryHint))
	b.WriteString(fmt.Sprintf("Student grade level: %s\n", gradeLevel))
	b.WriteString("Student location: Philippines\n")

	b.WriteString(`
Instructions:
Create spark content for this object:
1. quick_facts: 2-3 surprising, true facts about the object. Keep each fact to one sentence.
2. stem_concepts: explain the STEM concepts this object demonstrates, pitched at the student's grade level. Connect to things the student sees every day.
3. hands_on_project: one small, safe activity the student can do at home with common household materials to explore those concepts.`)

	return b.String()
}

const skillsSystemPrompt = `You extract STEM skills from learning content for a skill-tracking system. Skills must be normalized: use canonical concept names (e.g. "Photosynthesis", not "how plants make food") so repeat discoveries of the same concept map to the same skill.`

func buildSkillsUserMessage(spark SparkContent) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Quick Facts: %s\n\n", spark.QuickFacts))
	b.WriteString(fmt.Sprintf("STEM Concepts: %s\n\n", spark.STEMConcepts))
	b.WriteString(fmt.Sprintf("Hands-On Project: %s\n", spark.HandsOnProject))

	b.WriteString(`
Instructions:
List the distinct STEM skills this content teaches. For each skill give:
- skill_name: the canonical concept name (2-4 words, title case)
- category: exactly one of Biology, Chemistry, Physics, Mathematics, Engineering, Technology
Return 1-5 skills. Do not invent skills the content does not actually cover.`)

	return b.String()
}

const pathfinderSystemPrompt = `You are an academic and career guidance counselor for Filipino STEM students. You translate a learner's demonstrated skills into concrete, locally relevant recommendations: senior-high strands, college courses, and careers.`

func buildPathfinderUserMessage(userSkills map[string]int, gradeLevel string, now time.Time) string {
	var b strings.Builder

	skillsJSON, _ := json.Marshal(userSkills)
	b.WriteString(fmt.Sprintf("Grade level: %s\n", gradeLevel))
	b.WriteString(fmt.Sprintf("Acquired skills (name → mastery 0-100): %s\n", skillsJSON))
	b.WriteString(fmt.Sprintf("Date: %s\n", now.Format("Monday, January 2, 2006")))

	b.WriteString(`
Instructions:
1. Write a short motivating title and a 2-3 sentence summary of this learner's STEM profile.
2. List the strongest_fields: the top skills by mastery score.
3. Give 2-4 recommendations appropriate for the grade level. Each needs a type ("strand", "course", or "career"), a name, and why it fits this learner's skills. Where helpful add whats_next (a concrete step), an inspiration (a Filipino scientist or engineer with a one-line description), career_paths, and local_spotlight (Philippine schools, programs, or companies).`)

	return b.String()
}

const tutorSystemPrompt = `You are Tuklas, a friendly STEM tutor for Filipino students. Answer clearly at the student's grade level, stay encouraging, and keep answers short (2-5 sentences) unless the question needs more.`

func buildTutorUserMessage(input TutorInput, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Grade level: %s\n", input.GradeLevel))
	b.WriteString(fmt.Sprintf("Date: %s\n", now.Format("Monday, January 2, 2006")))

	if input.ObjectContext != "" {
		b.WriteString(fmt.Sprintf("The student is currently looking at content about a %q.\n", input.ObjectContext))
	}

	if len(input.ChatHistory) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range input.ChatHistory {
			b.WriteString(fmt.Sprintf("[%s] %s\n", m.Role, m.Content))
		}
	}

	b.WriteString(fmt.Sprintf("\nStudent's question: %s\n", input.Question))

	return b.String()
}
