// Copyright 2024 steamrec Authors
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

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GroupCacheHitTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steamrec",
		Subsystem: "cache",
		Name:      "group_cache_hit_total",
	})
	GroupCacheRefreshTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steamrec",
		Subsystem: "cache",
		Name:      "group_cache_refresh_total",
	})
	GroupCacheRefreshSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "steamrec",
		Subsystem: "cache",
		Name:      "group_cache_refresh_seconds",
	})
	// FetchFailureTotal counts roster members whose fetch was swallowed
	// during a refresh.
	FetchFailureTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "steamrec",
		Subsystem: "cache",
		Name:      "fetch_failure_total",
	})
)
