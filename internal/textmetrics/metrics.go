/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textmetrics isolates all text measurement behind a deterministic
// interface so layout can run without touching the filesystem or a concrete
// rendering engine.
package textmetrics

import "unicode/utf8"

// Style selects the normal or bold face of a provider's font.
type Style uint8

const (
	StyleNormal Style = iota
	StyleBold
)

// Metrics holds vertical font metrics in points for a given size.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Provider measures text for one font identity. Implementations must be
// deterministic: identical inputs always yield identical values.
//
// Width must return a usable value for StyleBold even when HasBold reports
// false, so wrap decisions never diverge between a true bold face and a
// simulated one.
type Provider interface {
	Width(s string, style Style, sizePt float64) float64
	Metrics(sizePt float64) Metrics
	HasBold() bool
}

// Courier metrics from the Adobe core font AFM (units per 1000 em). Every
// glyph advances 600.
const (
	courierAdvance = 0.600
	courierAscent  = 0.629
	courierDescent = 0.157
)

// CourierProvider measures with the built-in PDF core Courier metrics. It is
// the default provider: zero I/O, monospaced, and byte-for-byte reproducible.
type CourierProvider struct{}

func (CourierProvider) Width(s string, _ Style, sizePt float64) float64 {
	return float64(utf8.RuneCountInString(s)) * courierAdvance * sizePt
}

func (CourierProvider) Metrics(sizePt float64) Metrics {
	return Metrics{Ascent: courierAscent * sizePt, Descent: courierDescent * sizePt}
}

// HasBold is true: Courier-Bold is a core font with identical advances.
func (CourierProvider) HasBold() bool { return true }
