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


// Package storage provides the personal record store abstraction for healthmate.
//
// The HealthRecordRepository interface decouples the retrieval pipeline from
// the storage backend. The canonical implementation lives in storage/badger;
// tests use the same implementation with an in-memory backend.
//
// # Data Shape
//
// The store is graph-shaped: a single User aggregates Appointments,
// Medications, Conditions, and TestResults; Doctors are independent entities
// that Appointments reference by a non-owning relation; Medications and
// Conditions are cross-linked by a bidirectional "treats" relation; an
// AppointmentNote hangs off at most one Appointment.
//
// # Serialization
//
// Stored values are encoded with hand-written MUS serializers (see
// serialization.go). MarshalX/UnmarshalX helpers wrap the serializers for
// backend code.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. All methods accept context.Context for
// cancellation and timeout support.
package storage
