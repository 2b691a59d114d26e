// SPDX-License-Identifier: EPL-2.0

package sound

import "errors"

var (
	ErrNoSource         = errors.New("graph has no startable source stage")
	ErrEmptyPool        = errors.New("sampler has no units")
	ErrUnsupportedScale = errors.New("scale not supported here")
)
