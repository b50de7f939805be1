package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/models"
)

// HabitFormModel backs the add-habit form fields.
type HabitFormModel struct {
	Name        string
	Icon        string
	Color       string
	Frequency   models.Frequency
	Unit        models.TrackingUnit
	TargetCount string
	Hours       string
	Minutes     string
	Notes       string
}

func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Icon:        constants.DefaultHabitIcon,
		Color:       constants.DefaultHabitColorHex,
		Frequency:   models.FrequencyDaily,
		Unit:        models.TrackingCount,
		TargetCount: strconv.Itoa(constants.DefaultTargetCount),
		Hours:       "0",
		Minutes:     "30",
	}
}

// NewHabitForm creates the add-habit form. Target fields follow the chosen unit.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	iconOptions := []huh.Option[string]{huh.NewOption(constants.DefaultHabitIcon, constants.DefaultHabitIcon)}
	for _, icon := range models.AllIcons() {
		if icon != constants.DefaultHabitIcon {
			iconOptions = append(iconOptions, huh.NewOption(icon, icon))
		}
	}

	colorOptions := make([]huh.Option[string], 0, len(models.Palette))
	for _, c := range models.Palette {
		colorOptions = append(colorOptions, huh.NewOption(c.Name, c.Hex))
	}

	frequencyOptions := make([]huh.Option[models.Frequency], 0, len(models.Frequencies))
	for _, f := range models.Frequencies {
		frequencyOptions = append(frequencyOptions, huh.NewOption(capitalize(string(f)), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOptions...).
				Height(8).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&fm.Color),
		),
		huh.NewGroup(
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(frequencyOptions...).
				Value(&fm.Frequency),
			huh.NewSelect[models.TrackingUnit]().
				Title("Track by").
				Options(
					huh.NewOption("Count", models.TrackingCount),
					huh.NewOption("Time", models.TrackingTime),
				).
				Value(&fm.Unit),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily target").
				Value(&fm.TargetCount).
				Validate(validateNonNegative),
		).WithHideFunc(func() bool { return fm.Unit != models.TrackingCount }),
		huh.NewGroup(
			huh.NewInput().
				Title("Hours").
				Value(&fm.Hours).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Minutes").
				Value(&fm.Minutes).
				Validate(validateMinutes),
		).WithHideFunc(func() bool { return fm.Unit != models.TrackingTime }),
		huh.NewGroup(
			huh.NewText().
				Title("Notes").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

// Request converts the form into a catalog request.
func (fm *HabitFormModel) Request() (models.CreateHabitRequest, error) {
	req := models.CreateHabitRequest{
		Name:         strings.TrimSpace(fm.Name),
		IconName:     fm.Icon,
		ColorHex:     fm.Color,
		Frequency:    fm.Frequency,
		TrackingUnit: fm.Unit,
		Notes:        strings.TrimSpace(fm.Notes),
	}

	switch fm.Unit {
	case models.TrackingTime:
		hours, err := parseOptionalInt(fm.Hours)
		if err != nil {
			return req, fmt.Errorf("hours: %w", err)
		}
		minutes, err := parseOptionalInt(fm.Minutes)
		if err != nil {
			return req, fmt.Errorf("minutes: %w", err)
		}
		req.TargetTime = &models.TimeValue{Hours: hours, Minutes: minutes}
	default:
		if strings.TrimSpace(fm.TargetCount) != "" {
			n, err := parseOptionalInt(fm.TargetCount)
			if err != nil {
				return req, fmt.Errorf("target: %w", err)
			}
			req.TargetCount = models.Int(n)
		}
	}
	return req, nil
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func validateNonNegative(s string) error {
	i, err := parseOptionalInt(s)
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if i < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateMinutes(s string) error {
	if err := validateNonNegative(s); err != nil {
		return err
	}
	if i, _ := parseOptionalInt(s); i > constants.MaxTargetMinutesOfHour {
		return fmt.Errorf("minutes must be 0-%d", constants.MaxTargetMinutesOfHour)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
