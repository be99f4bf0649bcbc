/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"errors"
	"fmt"

	"screenmd/internal/screenplay"
)

// ErrConfig marks setup-time configuration failures. Content never causes
// errors; geometry and font parameters can.
var ErrConfig = errors.New("invalid layout configuration")

// PointsPerInch converts inches to PostScript points.
const PointsPerInch = 72.0

// Geometry describes the page in points. The origin is top-left; baselines
// grow downward.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	MarginTop  float64
	MarginBot  float64
	// TransitionRight is the distance from the right page edge at which
	// right-aligned transitions end.
	TransitionRight float64
}

// USLetter returns the default 8.5"x11" geometry with 1" top/bottom margins
// and the standard 1" transition margin.
func USLetter() Geometry {
	return Geometry{
		PageWidth:       8.5 * PointsPerInch,
		PageHeight:      11 * PointsPerInch,
		MarginTop:       1 * PointsPerInch,
		MarginBot:       1 * PointsPerInch,
		TransitionRight: 1 * PointsPerInch,
	}
}

// Validate reports geometry errors. All failures wrap ErrConfig.
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("%w: page size %vx%v must be positive", ErrConfig, g.PageWidth, g.PageHeight)
	}
	if g.MarginTop < 0 || g.MarginBot < 0 || g.TransitionRight < 0 {
		return fmt.Errorf("%w: margins must be non-negative", ErrConfig)
	}
	if g.MarginTop+g.MarginBot >= g.PageHeight {
		return fmt.Errorf("%w: vertical margins %v leave no writable area on a %v-point page", ErrConfig, g.MarginTop+g.MarginBot, g.PageHeight)
	}
	return nil
}

// indent holds the left and right margins in points for one block kind.
type indent struct {
	left  float64
	right float64
}

// Screenwriter margin table (inches): scene/action 1.5 left, 1.0 right;
// character 3.5 left; dialogue 2.5/2.5; parenthetical 3.0 left.
func indentFor(k screenplay.Kind) indent {
	switch k {
	case screenplay.KindCharacterCue:
		return indent{left: 3.5 * PointsPerInch, right: 2.5 * PointsPerInch}
	case screenplay.KindDialogue:
		return indent{left: 2.5 * PointsPerInch, right: 2.5 * PointsPerInch}
	case screenplay.KindParenthetical:
		return indent{left: 3.0 * PointsPerInch, right: 2.5 * PointsPerInch}
	default: // scene, shot, action, transition left edge
		return indent{left: 1.5 * PointsPerInch, right: 1.0 * PointsPerInch}
	}
}

// Vertical breathing room before/after a block, in line-height fractions.
type spacing struct {
	before float64
	after  float64
}

func spacingFor(k screenplay.Kind) spacing {
	switch k {
	case screenplay.KindSceneHeading:
		return spacing{before: 0.25, after: 0.25}
	case screenplay.KindShotHeading:
		return spacing{before: 0.1, after: 0.1}
	case screenplay.KindCharacterCue:
		return spacing{before: 0.3}
	case screenplay.KindDialogue:
		return spacing{after: 0.3}
	case screenplay.KindParenthetical:
		return spacing{}
	case screenplay.KindTransition:
		return spacing{before: 0.3, after: 0.1}
	default:
		return spacing{before: 0.2, after: 0.2}
	}
}
