package memory

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TLN1/linkr-back/backend/internal/domain/model"
	"github.com/TLN1/linkr-back/backend/internal/domain/rules"
)

type fixturePreference struct {
	UserID           int64    `yaml:"user_id"`
	Locations        []string `yaml:"locations"`
	JobTypes         []string `yaml:"job_types"`
	ExperienceLevels []string `yaml:"experience_levels"`
	Industries       []string `yaml:"industries"`
}

type fixtureFile struct {
	Companies    []model.Company     `yaml:"companies"`
	Applications []model.Application `yaml:"applications"`
	Users        []model.User        `yaml:"users"`
	Preferences  []fixturePreference `yaml:"preferences"`
}

// LoadFixtures reads a YAML fixture file into the catalog.
func LoadFixtures(path string, catalog *Catalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	return LoadFixturesYAML(raw, catalog)
}

func LoadFixturesYAML(raw []byte, catalog *Catalog) error {
	var file fixtureFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, user := range file.Users {
		if user.ID <= 0 {
			return fmt.Errorf("fixture user has invalid id %d", user.ID)
		}
		catalog.PutUser(user)
	}
	for _, company := range file.Companies {
		if company.ID <= 0 {
			return fmt.Errorf("fixture company has invalid id %d", company.ID)
		}
		catalog.PutCompany(company)
	}
	for _, app := range file.Applications {
		if app.ID <= 0 {
			return fmt.Errorf("fixture application has invalid id %d", app.ID)
		}
		if err := catalog.PutApplication(app); err != nil {
			return fmt.Errorf("fixture application %d: %w", app.ID, err)
		}
	}
	for _, item := range file.Preferences {
		pref, err := rules.ParsePreference(item.Locations, item.JobTypes, item.ExperienceLevels, item.Industries)
		if err != nil {
			return fmt.Errorf("fixture preference of user %d: %w", item.UserID, err)
		}
		catalog.PutPreference(item.UserID, pref)
	}

	return nil
}
