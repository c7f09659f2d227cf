// Copyright 2025 Poiesic Systems
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

// Package badger implements storage.HealthRecordRepository on BadgerDB.
//
// Records are stored under typed key prefixes (see keys.go). User-owned
// records embed the owner id in the key, so every per-user read is a single
// prefix scan; per-user record counts are small, so ordering and date
// filtering happen in memory after the scan. The treats relation between
// medications and conditions is materialized in both directions as composite
// link keys, which keeps both traversals prefix scans as well.
//
// Entity ids are random UUIDs. Doctor names are a natural key backed by a
// separate index entry.
package badger
