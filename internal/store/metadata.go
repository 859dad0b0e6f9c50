package store

import (
	"database/sql"
	"strconv"

	"github.com/pavelanni/pathways/internal/model"
)

// SetMetadata upserts a key-value pair in the app_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetDataInfo records which reference data the server was started with.
func (s *Store) SetDataInfo(info model.DataInfo) error {
	pairs := []struct{ k, v string }{
		{"questions_source", info.QuestionsSource},
		{"questions_sha256", info.QuestionsSHA256},
		{"question_count", strconv.Itoa(info.QuestionCount)},
		{"matches_source", info.MatchesSource},
		{"matches_sha256", info.MatchesSHA256},
		{"match_count", strconv.Itoa(info.MatchCount)},
	}
	for _, p := range pairs {
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetDataInfo reads the recorded reference data description.
func (s *Store) GetDataInfo() (model.DataInfo, error) {
	var info model.DataInfo
	var err error

	if info.QuestionsSource, err = s.GetMetadata("questions_source"); err != nil {
		return info, err
	}
	if info.QuestionsSHA256, err = s.GetMetadata("questions_sha256"); err != nil {
		return info, err
	}
	if info.MatchesSource, err = s.GetMetadata("matches_source"); err != nil {
		return info, err
	}
	if info.MatchesSHA256, err = s.GetMetadata("matches_sha256"); err != nil {
		return info, err
	}
	for key, dst := range map[string]*int{
		"question_count": &info.QuestionCount,
		"match_count":    &info.MatchCount,
	} {
		v, err := s.GetMetadata(key)
		if err != nil {
			return info, err
		}
		if v == "" {
			continue
		}
		if *dst, err = strconv.Atoi(v); err != nil {
			return info, err
		}
	}
	return info, nil
}
