package auto_approval

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	envVarEnvironment   = "INPUT_ENVIRONMENT"
	envVarToken         = "INPUT_GITHUB_TOKEN"
	envVarTokenAlt      = "INPUT_TOKEN"
	envVarDefaultToken  = "GITHUB_TOKEN"
	envVarRepoFullName  = "GITHUB_REPOSITORY"
	envVarRepoOwner     = "GITHUB_REPOSITORY_OWNER"
	envVarRunID         = "GITHUB_RUN_ID"
	envVarActor         = "GITHUB_ACTOR"
	envVarAPIURL        = "GITHUB_API_URL"
	envVarStepSummary   = "GITHUB_STEP_SUMMARY"
	defaultGitHubAPIURL = "https://api.github.com/"
)

// Settings is everything the step reads from the Actions runner environment.
type Settings struct {
	Environment     string `mapstructure:"environment"`
	Token           string `mapstructure:"token"`
	Repository      string `mapstructure:"repository"`
	RepositoryOwner string `mapstructure:"repository_owner"`
	RunID           string `mapstructure:"run_id"`
	Actor           string `mapstructure:"actor"`
	APIURL          string `mapstructure:"api_url"`
	SummaryFile     string `mapstructure:"step_summary"`
}

var envBindings = map[string][]string{
	"environment":      {envVarEnvironment},
	"token":            {envVarToken, envVarTokenAlt, envVarDefaultToken},
	"repository":       {envVarRepoFullName},
	"repository_owner": {envVarRepoOwner},
	"run_id":           {envVarRunID},
	"actor":            {envVarActor},
	"api_url":          {envVarAPIURL},
	"step_summary":     {envVarStepSummary},
}

// getenv serves the job summary path from the loaded settings to the actions
// toolkit and falls back to the process environment for everything else.
func (s *Settings) getenv(key string) string {
	if key == envVarStepSummary {
		return s.SummaryFile
	}
	return os.Getenv(key)
}

func loadSettings() (*Settings, error) {
	v := viper.New()
	for key, vars := range envBindings {
		if err := v.BindEnv(append([]string{key}, vars...)...); err != nil {
			return nil, err
		}
	}
	v.SetDefault("api_url", defaultGitHubAPIURL)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	return &s, nil
}

// defaultConfig reads the step inputs and the run context from the environment
// variables. The --environment flag takes precedence over INPUT_ENVIRONMENT.
func (k *Config) defaultConfig() (*Settings, RunContext, error) {
	debugf("Read default configuration from the environment variables\n")

	var rc RunContext
	s, err := loadSettings()
	if err != nil {
		return nil, rc, err
	}

	if env := strings.TrimSpace(k.Environment); env != "" {
		s.Environment = env
	}
	s.Environment = strings.TrimSpace(s.Environment)
	if s.Environment == "" {
		return nil, rc, fmt.Errorf("%s environment variable missing", envVarEnvironment)
	}

	if s.Token == "" {
		return nil, rc, fmt.Errorf("%s environment variable missing", envVarToken)
	}

	if s.Repository == "" {
		return nil, rc, fmt.Errorf("%s environment variable missing", envVarRepoFullName)
	}
	repoOwnerAndName := strings.Split(s.Repository, "/")
	if len(repoOwnerAndName) != 2 || repoOwnerAndName[0] == "" || repoOwnerAndName[1] == "" {
		return nil, rc, fmt.Errorf("repo owner and name in unexpected format: %s", s.Repository)
	}
	rc.Owner = s.RepositoryOwner
	if rc.Owner == "" {
		rc.Owner = repoOwnerAndName[0]
	}
	rc.Repo = repoOwnerAndName[1]

	if s.RunID == "" {
		return nil, rc, fmt.Errorf("%s environment variable missing", envVarRunID)
	}
	rc.RunID, err = strconv.ParseInt(s.RunID, 10, 64)
	if err != nil {
		return nil, rc, fmt.Errorf("%s environment variable invalid: %w", envVarRunID, err)
	}

	if s.Actor == "" {
		return nil, rc, fmt.Errorf("%s environment variable missing", envVarActor)
	}
	rc.Actor = s.Actor

	return s, rc, nil
}
