// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package data

import "errors"

var (
	ErrNonMonotonicTime = errors.New("price series timestamps must be strictly ascending")
	ErrNonPositivePrice = errors.New("price series contains a non-positive price")
	ErrNegativeVolume   = errors.New("price series contains a negative volume")
	ErrHighBelowLow     = errors.New("bar high is below bar low")
	ErrPolarityRange    = errors.New("news polarity must be in [-1, 1]")
)
