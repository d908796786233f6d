// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "strconv"

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
