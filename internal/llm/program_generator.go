package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/alec12026-hash/rockyfit-sub000/internal/domain"
)

const (
	systemPrompt       = "You are an experienced strength and conditioning coach. You reply with a single JSON object and nothing else."
	programTemperature = 0.7
)

// ErrMalformedProgram is returned when the reply cannot be turned into a usable program.
var ErrMalformedProgram = errors.New("malformed program from llm")

// ProgramGenerator builds programs with the chat client. It satisfies program.Generator.
type ProgramGenerator struct {
	client *Client
}

func NewProgramGenerator(client *Client) *ProgramGenerator {
	return &ProgramGenerator{client: client}
}

type programJSON struct {
	Name              string   `json:"name"`
	DurationWeeks     int      `json:"durationWeeks"`
	Focus             []string `json:"focus"`
	ProgressionScheme string   `json:"progressionScheme"`
	RecoveryNotes     string   `json:"recoveryNotes"`
	Days              []struct {
		Name         string   `json:"name"`
		MuscleGroups []string `json:"muscleGroups"`
		Exercises    []struct {
			Name      string `json:"name"`
			Sets      int    `json:"sets"`
			RepRange  string `json:"repRange"`
			Rest      string `json:"rest"`
			Rationale string `json:"rationale"`
		} `json:"exercises"`
	} `json:"days"`
}

// Generate asks the model for a program. Any transport error or reply that does not parse
// into at least one day with exercises is returned as an error.
func (g *ProgramGenerator) Generate(ctx context.Context, profile domain.Profile, customStructure string) (*domain.Program, error) {
	reply, err := g.client.ChatJSON(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildProgramPrompt(profile, customStructure)},
	}, programTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate program: %w", err)
	}

	p, err := parseProgram(reply, profile)
	if err != nil {
		log.WithError(err).Warn("llm returned an unusable program")
		return nil, err
	}
	return p, nil
}

func buildProgramPrompt(profile domain.Profile, customStructure string) string {
	var sb strings.Builder

	sb.WriteString("Design a personalized multi-week training program.\n\n")
	sb.WriteString("ATHLETE:\n")
	sb.WriteString(fmt.Sprintf("- Experience: %s\n", valueOr(string(profile.Experience), "beginner")))
	sb.WriteString(fmt.Sprintf("- Goal: %s\n", valueOr(string(profile.Goal), "general")))
	sb.WriteString(fmt.Sprintf("- Training days per week: %d\n", profile.DaysPerWeek))
	if profile.Focus != "" {
		sb.WriteString(fmt.Sprintf("- Focus: %s\n", profile.Focus))
	}
	if profile.SleepQuality != "" {
		sb.WriteString(fmt.Sprintf("- Sleep quality: %s\n", profile.SleepQuality))
	}
	if profile.StressLevel != "" {
		sb.WriteString(fmt.Sprintf("- Stress level: %s\n", profile.StressLevel))
	}
	if customStructure != "" {
		sb.WriteString(fmt.Sprintf("\nThe athlete asked for this weekly structure: %s\n", customStructure))
	}

	sb.WriteString(`
Reply with JSON of this shape:
{
  "name": "string",
  "durationWeeks": 8,
  "focus": ["string"],
  "progressionScheme": "string",
  "recoveryNotes": "string",
  "days": [
    {
      "name": "string",
      "muscleGroups": ["string"],
      "exercises": [
        {"name": "string", "sets": 3, "repRange": "8-12", "rest": "90 sec", "rationale": "string"}
      ]
    }
  ]
}
`)
	return sb.String()
}

func parseProgram(reply string, profile domain.Profile) (*domain.Program, error) {
	var data programJSON
	if err := json.Unmarshal([]byte(extractJSON(reply)), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProgram, err)
	}
	if strings.TrimSpace(data.Name) == "" || len(data.Days) == 0 {
		return nil, fmt.Errorf("%w: missing name or days", ErrMalformedProgram)
	}

	p := &domain.Program{
		Name:              data.Name,
		DurationWeeks:     data.DurationWeeks,
		DaysPerWeek:       len(data.Days),
		Goal:              string(profile.Goal),
		Focus:             data.Focus,
		ProgressionScheme: data.ProgressionScheme,
		RecoveryNotes:     data.RecoveryNotes,
		Source:            domain.SourceAI,
	}
	if p.DurationWeeks <= 0 {
		p.DurationWeeks = 8
	}

	for _, d := range data.Days {
		if len(d.Exercises) == 0 {
			return nil, fmt.Errorf("%w: day %q has no exercises", ErrMalformedProgram, d.Name)
		}
		day := domain.ProgramDay{Name: d.Name, MuscleGroups: d.MuscleGroups}
		for _, ex := range d.Exercises {
			if strings.TrimSpace(ex.Name) == "" {
				return nil, fmt.Errorf("%w: unnamed exercise on %q", ErrMalformedProgram, d.Name)
			}
			sets := ex.Sets
			if sets < 1 {
				sets = 1
			}
			day.Exercises = append(day.Exercises, domain.ProgramExercise{
				Name:      ex.Name,
				Sets:      sets,
				RepRange:  ex.RepRange,
				Rest:      ex.Rest,
				Rationale: ex.Rationale,
			})
		}
		p.Days = append(p.Days, day)
	}

	return p, nil
}

// extractJSON strips markdown fences and any prose around the outermost object.
func extractJSON(s string) string {
	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
	} else if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
