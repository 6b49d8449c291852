// Copyright 2025 ScholarDesk Authors
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

package common

import "errors"

var (
	ErrInvalidScope    = errors.New("invalid cache scope")
	ErrInvalidValidity = errors.New("invalid validity window")
	ErrStoreClosed     = errors.New("store is closed")
	ErrStoreExists     = errors.New("store already exists")
	ErrStoreMissing    = errors.New("store not initialized")
	ErrLocked          = errors.New("store is locked by another process")
)
