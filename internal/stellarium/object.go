package stellarium

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TrackedObject describes the object currently selected in Stellarium.
type TrackedObject struct {
	AboveHorizon  bool    `json:"above-horizon"`
	LocalizedName string  `json:"localized-name"`
	Name          string  `json:"name"`
	ObjectType    string  `json:"object-type"`
	Altitude      float64 `json:"altitude"`
	Azimuth       float64 `json:"azimuth"`
}

// objectInfo is the wire shape of /api/objects/info. Stellarium spells the
// compound keys with hyphens; underscored spellings are accepted too and win
// if both are present.
type objectInfo struct {
	AboveHorizon        *bool    `json:"above_horizon"`
	AboveHorizonHyphen  *bool    `json:"above-horizon"`
	LocalizedName       *string  `json:"localized_name"`
	LocalizedNameHyphen *string  `json:"localized-name"`
	Name                *string  `json:"name"`
	ObjectType          *string  `json:"object_type"`
	ObjectTypeHyphen    *string  `json:"object-type"`
	Altitude            *float64 `json:"altitude"`
	Azimuth             *float64 `json:"azimuth"`
}

// UnmarshalJSON decodes an object info document. Every field is required.
func (o *TrackedObject) UnmarshalJSON(data []byte) error {
	var info objectInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return err
	}

	var missing []string
	aboveHorizon := pick(info.AboveHorizon, info.AboveHorizonHyphen, "above_horizon", &missing)
	localizedName := pick(info.LocalizedName, info.LocalizedNameHyphen, "localized_name", &missing)
	name := pick(info.Name, nil, "name", &missing)
	objectType := pick(info.ObjectType, info.ObjectTypeHyphen, "object_type", &missing)
	altitude := pick(info.Altitude, nil, "altitude", &missing)
	azimuth := pick(info.Azimuth, nil, "azimuth", &missing)
	if len(missing) > 0 {
		return fmt.Errorf("missing field(s) %v", missing)
	}

	*o = TrackedObject{
		AboveHorizon:  aboveHorizon,
		LocalizedName: localizedName,
		Name:          name,
		ObjectType:    objectType,
		Altitude:      altitude,
		Azimuth:       azimuth,
	}
	return nil
}

func pick[T any](primary, alias *T, field string, missing *[]string) T {
	switch {
	case primary != nil:
		return *primary
	case alias != nil:
		return *alias
	}
	*missing = append(*missing, field)
	var zero T
	return zero
}

// decodeObject parses body into a TrackedObject.
func decodeObject(body []byte) (*TrackedObject, error) {
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	var obj TrackedObject
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}
