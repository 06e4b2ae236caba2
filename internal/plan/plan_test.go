package plan

import (
	"testing"

	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *config.Config {
	return &config.Config{
		Paths: []string{"/a", "/b?state=x y"},
		Environments: []config.Environment{
			{Name: "dev", BaseURL: "http://dev"},
			{Name: "staging", BaseURL: "http://staging/"},
		},
	}
}

func TestPlan_CrossProductInOrder(t *testing.T) {
	got, err := Plan(sampleConfig(), "")
	require.NoError(t, err)
	want := []task.Target{
		{Index: 0, Environment: "dev", URL: "http://dev/a"},
		{Index: 1, Environment: "dev", URL: "http://dev/b?state=x y"},
		{Index: 2, Environment: "staging", URL: "http://staging//a"},
		{Index: 3, Environment: "staging", URL: "http://staging//b?state=x y"},
	}
	assert.Equal(t, want, got)
}

func TestPlan_Filter(t *testing.T) {
	got, err := Plan(sampleConfig(), "staging")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, tg := range got {
		assert.Equal(t, "staging", tg.Environment)
		assert.Equal(t, i, tg.Index)
	}
}

func TestPlan_UnknownEnvironment(t *testing.T) {
	_, err := Plan(sampleConfig(), "prod")
	require.ErrorIs(t, err, ErrUnknownEnvironment)
	assert.Contains(t, err.Error(), "dev, staging")
}

func TestPlan_Empty(t *testing.T) {
	cfg := sampleConfig()
	cfg.Paths = nil
	got, err := Plan(cfg, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Plan(&config.Config{Paths: []string{"/a"}}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlan_NilConfig(t *testing.T) {
	got, err := Plan(nil, "")
	require.ErrorIs(t, err, ErrNoConfig)
	assert.Nil(t, got)
}

func TestPlan_Cardinality(t *testing.T) {
	for envs := 0; envs < 4; envs++ {
		for paths := 0; paths < 4; paths++ {
			cfg := &config.Config{}
			for i := 0; i < envs; i++ {
				cfg.Environments = append(cfg.Environments, config.Environment{Name: string(rune('a' + i)), BaseURL: "http://h"})
			}
			for i := 0; i < paths; i++ {
				cfg.Paths = append(cfg.Paths, "/p")
			}
			got, err := Plan(cfg, "")
			require.NoError(t, err)
			assert.Len(t, got, envs*paths)
		}
	}
}

func TestPlan_FollowsDeclarationOrderAcrossFormats(t *testing.T) {
	docs := map[config.Format]string{
		config.FormatYAML: "paths: [/p]\nenvironments:\n  zeta:\n    baseurl: http://z\n  alpha:\n    baseurl: http://a\n",
		config.FormatTOML: "paths = [\"/p\"]\n[environments.zeta]\nbaseurl = \"http://z\"\n[environments.alpha]\nbaseurl = \"http://a\"\n",
		config.FormatJSON: `{"paths": ["/p"], "environments": {"zeta": {"baseurl": "http://z"}, "alpha": {"baseurl": "http://a"}}}`,
	}
	for format, doc := range docs {
		t.Run(string(format), func(t *testing.T) {
			cfg, err := config.Parse([]byte(doc), format)
			require.NoError(t, err)
			got, err := Plan(cfg, "")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "zeta", got[0].Environment)
			assert.Equal(t, "http://z/p", got[0].URL)
			assert.Equal(t, "alpha", got[1].Environment)
		})
	}
}
