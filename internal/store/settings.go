package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/pomo/internal/timer"
)

// Setting keys read by the timer and the task tracker.
const (
	KeyFocusDuration      = "focus_duration"
	KeyShortBreakDuration = "short_break_duration"
	KeyLongBreakDuration  = "long_break_duration"
	KeyLongBreakInterval  = "long_break_interval"
	KeyAutoAdvance        = "auto_advance"
	KeyAutoCheckTasks     = "auto_check_tasks"
	KeyAutoSwitchTasks    = "auto_switch_tasks"
	KeySoundEnabled       = "sound_enabled"
	KeyNotifyEnabled      = "notify_enabled"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetBool reads a boolean setting, returning fallback when it is missing or
// unparsable.
func (s *Store) GetBool(key string, fallback bool) bool {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

func (s *Store) SetBool(key string, value bool) error {
	return s.SetSetting(key, strconv.FormatBool(value))
}

// LoadTimerConfig builds a timer.Config from the settings table. Missing,
// non-numeric or non-positive values fail with timer.ErrInvalidConfiguration.
func (s *Store) LoadTimerConfig() (timer.Config, error) {
	var cfg timer.Config
	ints := []struct {
		key string
		dst *int
	}{
		{KeyFocusDuration, &cfg.FocusSeconds},
		{KeyShortBreakDuration, &cfg.ShortBreakSeconds},
		{KeyLongBreakDuration, &cfg.LongBreakSeconds},
		{KeyLongBreakInterval, &cfg.LongBreakInterval},
	}
	for _, f := range ints {
		v, err := s.GetSetting(f.key)
		if err != nil {
			return timer.Config{}, err
		}
		n, err := ParsePositiveInt(f.key, v)
		if err != nil {
			return timer.Config{}, err
		}
		*f.dst = n
	}
	cfg.AutoAdvance = s.GetBool(KeyAutoAdvance, false)

	if err := cfg.Validate(); err != nil {
		return timer.Config{}, err
	}
	return cfg, nil
}

// SaveTimerConfig validates cfg and writes it in one transaction.
func (s *Store) SaveTimerConfig(cfg timer.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save timer config: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		KeyFocusDuration:      strconv.Itoa(cfg.FocusSeconds),
		KeyShortBreakDuration: strconv.Itoa(cfg.ShortBreakSeconds),
		KeyLongBreakDuration:  strconv.Itoa(cfg.LongBreakSeconds),
		KeyLongBreakInterval:  strconv.Itoa(cfg.LongBreakInterval),
		KeyAutoAdvance:        strconv.FormatBool(cfg.AutoAdvance),
	}
	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}

// ParsePositiveInt parses user input for a duration or count setting.
func ParsePositiveInt(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &timer.ConfigError{Field: field, Value: v, Cause: strconv.ErrSyntax}
	}
	if n < 1 {
		return 0, &timer.ConfigError{Field: field, Value: v}
	}
	return n, nil
}
