// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array

import (
	"reflect"

	"golang.org/x/exp/constraints"
)

// typed converts the items of an array to their Go type.
func typed[T any](a []any) []T {
	out := make([]T, len(a))
	for i, item := range a {
		out[i] = item.(T)
	}
	return out
}

func sumFloat[T constraints.Float](xs []T) T {
	var total T
	for _, x := range xs {
		total += x
	}
	return total
}

func equal(x, y any) bool {
	return reflect.DeepEqual(x, y)
}
