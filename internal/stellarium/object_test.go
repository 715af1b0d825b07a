package stellarium

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackedObject_UnmarshalJSON_Aliases(t *testing.T) {
	want := TrackedObject{
		AboveHorizon:  true,
		LocalizedName: "Mars",
		Name:          "Mars",
		ObjectType:    "planet",
		Altitude:      45.1,
		Azimuth:       123.456789,
	}

	tests := []struct {
		name string
		body string
	}{
		{
			name: "hyphenated",
			body: `{"above-horizon":true,"localized-name":"Mars","name":"Mars","object-type":"planet","altitude":45.1,"azimuth":123.456789}`,
		},
		{
			name: "underscored",
			body: `{"above_horizon":true,"localized_name":"Mars","name":"Mars","object_type":"planet","altitude":45.1,"azimuth":123.456789}`,
		},
		{
			name: "mixed with extra fields",
			body: `{"above-horizon":true,"localized_name":"Mars","name":"Mars","object-type":"planet","altitude":45.1,"azimuth":123.456789,"ra":12.5,"vmag":-1.2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TrackedObject
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("decoded object mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrackedObject_UnmarshalJSON_UnderscoreWins(t *testing.T) {
	body := `{"above-horizon":false,"above_horizon":true,"localized-name":"a","localized_name":"b","name":"n","object-type":"x","object_type":"y","altitude":1,"azimuth":2}`
	var got TrackedObject
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.True(t, got.AboveHorizon)
	assert.Equal(t, "b", got.LocalizedName)
	assert.Equal(t, "y", got.ObjectType)
}

func TestTrackedObject_UnmarshalJSON_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing azimuth":    `{"above-horizon":true,"localized-name":"Mars","name":"Mars","object-type":"planet","altitude":45.1}`,
		"missing everything": `{}`,
		"null name":          `{"above-horizon":true,"localized-name":"Mars","name":null,"object-type":"planet","altitude":45.1,"azimuth":1}`,
		"wrong type":         `{"above-horizon":"yes","localized-name":"Mars","name":"Mars","object-type":"planet","altitude":45.1,"azimuth":1}`,
		"altitude as string": `{"above-horizon":true,"localized-name":"Mars","name":"Mars","object-type":"planet","altitude":"45.1","azimuth":1}`,
		"not an object":      `[1,2,3]`,
		"truncated":          `{"above-horizon":true,`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var got TrackedObject
			assert.Error(t, json.Unmarshal([]byte(body), &got))
		})
	}
}

func TestTrackedObject_MarshalRoundTrip(t *testing.T) {
	in := TrackedObject{AboveHorizon: true, LocalizedName: "Vega", Name: "HIP 91262", ObjectType: "star", Altitude: 62.25, Azimuth: 301.5}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"above-horizon":true`)

	var out TrackedObject
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestDecodeObject_Empty(t *testing.T) {
	_, err := decodeObject(nil)
	assert.Error(t, err)
}
