/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package profile loads named layout profiles from JSON. A profile is a
// shareable subset of the configuration (page geometry and type settings)
// validated against a JSON schema before it touches the config.
package profile

import (
	"encoding/json"
	"fmt"
	"os"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"screenmd/internal/config"
)

// Schema describes the profile file format. Unknown properties are rejected
// so typos fail loudly instead of silently keeping defaults.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "screenmd layout profile",
  "type": "object",
  "additionalProperties": false,
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "font": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "family": {"type": "string"},
        "regular": {"type": "string"},
        "bold": {"type": "string"},
        "size_pt": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "page": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "width_in": {"type": "number", "exclusiveMinimum": 0},
        "height_in": {"type": "number", "exclusiveMinimum": 0},
        "top_in": {"type": "number", "minimum": 0},
        "bottom_in": {"type": "number", "minimum": 0},
        "transition_right_in": {"type": "number", "minimum": 0}
      }
    },
    "leading_pt": {"type": "number", "minimum": 0}
  }
}`

// Profile is a parsed layout profile. Pointer fields distinguish "absent"
// from "explicit zero" so a profile overrides only what it names.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Font        struct {
		Family  *string  `json:"family,omitempty"`
		Regular *string  `json:"regular,omitempty"`
		Bold    *string  `json:"bold,omitempty"`
		SizePt  *float64 `json:"size_pt,omitempty"`
	} `json:"font"`
	Page struct {
		WidthIn           *float64 `json:"width_in,omitempty"`
		HeightIn          *float64 `json:"height_in,omitempty"`
		TopIn             *float64 `json:"top_in,omitempty"`
		BottomIn          *float64 `json:"bottom_in,omitempty"`
		TransitionRightIn *float64 `json:"transition_right_in,omitempty"`
	} `json:"page"`
	LeadingPt *float64 `json:"leading_pt,omitempty"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data)
}

// Parse validates data against Schema and decodes it.
func Parse(data []byte) (*Profile, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(Schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate profile: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		return nil, fmt.Errorf("%w: %s", config.ErrInvalid, errs[0])
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// Apply overlays the profile onto cfg and revalidates.
func (p *Profile) Apply(cfg *config.Config) error {
	if p.Font.Family != nil {
		cfg.Font.Family = *p.Font.Family
	}
	if p.Font.Regular != nil {
		cfg.Font.Regular = *p.Font.Regular
	}
	if p.Font.Bold != nil {
		cfg.Font.Bold = *p.Font.Bold
	}
	if p.Font.SizePt != nil {
		cfg.Font.SizePt = *p.Font.SizePt
	}
	if p.Page.WidthIn != nil {
		cfg.Page.WidthIn = *p.Page.WidthIn
	}
	if p.Page.HeightIn != nil {
		cfg.Page.HeightIn = *p.Page.HeightIn
	}
	if p.Page.TopIn != nil {
		cfg.Page.TopIn = *p.Page.TopIn
	}
	if p.Page.BottomIn != nil {
		cfg.Page.BottomIn = *p.Page.BottomIn
	}
	if p.Page.TransitionRightIn != nil {
		cfg.Page.TransitionRightIn = *p.Page.TransitionRightIn
	}
	if p.LeadingPt != nil {
		cfg.Leading = *p.LeadingPt
	}
	return cfg.Validate()
}
