package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/inject"
	"github.com/granito-source/concordion/internal/restclient"
	"github.com/granito-source/concordion/internal/specification"
)

func TestInstall_DefinesEveryFixtureWithAManifest(t *testing.T) {
	l := classpath.NewLoader("host").Install(Install)

	for _, typ := range l.Types() {
		if specification.BaseName(typ) == typ.SimpleName() {
			continue
		}
		names, err := Locator().ExampleNames(typ)
		if typ.Name() == "spec.UnmarkedFixture" {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err, typ.Name())
		assert.NotEmpty(t, names, typ.Name())
	}

	_, err := inject.Current(l)
	require.NoError(t, err)
	_, ok := restclient.Lookup(l)
	assert.True(t, ok)
}

func TestFixtures_RunTheirExamples(t *testing.T) {
	l := classpath.NewLoader("host").Install(Install)
	c, err := inject.Current(l)
	require.NoError(t, err)
	client, _ := restclient.Lookup(l)
	client.SetPort(50000)

	tests := []struct {
		fixture string
		example string
		wantErr string
	}{
		{"spec.DemoFixture", "greeting", ""},
		{"spec.PartialMatchesFixture", "partial-match", ""},
		{"spec.PartialMatchesFixture", "no-match", ""},
		{"spec.SpikeFixture", "people", ""},
		{"spec.SpikeFixture", "broken", "expected [Hello Johnny!] but was [Hello John!]"},
		{"spec/lifecycle.GreetingFixture", "greeting", ""},
		{"spec/app.DemoFixture", "greeting", ""},
		{"spec/app.DemoFixture", "port", ""},
		{"spec/app.SpikeFixture", "greeting", ""},
		{"spec/legacy.DemoFixture", "greeting", ""},
		{"spec.DemoFixture", "farewell", `unknown example "farewell"`},
	}
	for _, tt := range tests {
		t.Run(tt.fixture+"/"+tt.example, func(t *testing.T) {
			typ, err := l.Load(tt.fixture)
			require.NoError(t, err)
			obj, err := c.Select(typ)
			require.NoError(t, err)

			err = specification.RunExample(obj, tt.example)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	assert.NotEmpty(t, Location)
}
