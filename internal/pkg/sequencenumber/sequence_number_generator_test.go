// Copyright 2024 ecodeclub
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

package sequencenumber

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		id           int64
		timestampGen TimestampGenerateFunc
		uuidGen      ShortUUIDGenerateFunc
		wantPrefix   string
	}{
		{
			name:         "普通ID",
			id:           12345,
			timestampGen: func(_ time.Time) int64 { return 1717171717171 },
			uuidGen:      func() string { return strings.Repeat("x", 22) },
			wantPrefix:   "17171717171712345",
		},
		{
			name:         "ID不足四位要补零",
			id:           7,
			timestampGen: func(_ time.Time) int64 { return 1717171717171 },
			uuidGen:      func() string { return strings.Repeat("x", 22) },
			wantPrefix:   "17171717171710007",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGeneratorWith(tc.timestampGen, tc.uuidGen)
			sn, err := g.Generate(tc.id)
			require.NoError(t, err)
			assert.Len(t, sn, 32)
			assert.True(t, strings.HasPrefix(sn, tc.wantPrefix))
		})
	}
}

func TestGenerator_Generate_Unique(t *testing.T) {
	t.Parallel()
	g := NewGenerator()
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		sn, err := g.Generate(int64(i))
		require.NoError(t, err)
		require.False(t, seen[sn])
		seen[sn] = true
	}
}
