// Copyright (c) 2025 Ezras Nashim.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tehillim is the static catalog of addressable psalm units.

The Book of Psalms has 150 numbered psalms, but psalm 119 is read in 22
parts (one per Hebrew letter, 8 verses each), giving 171 addressable
units. Units are identified by a 1-171 id ordered by
(englishNumber, partNumber):

	ids   1-118  psalms 1-118
	ids 119-140  psalm 119, parts 1-22
	ids 141-171  psalms 120-150

The catalog is immutable and generated at init.
*/
package tehillim
