// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

/*
Package sorting orders the rows of a table held in memory.

Overview

Rows are Records: the fields of one data row together with
the row's position in the table. A Selection names the
columns that form the sort key; columns a row does not
have are skipped for that row, so ragged tables never cause
out-of-range reads.

The Order decides what "less" means for the key fields
(see package compare):

* Lexical -- raw bytes, optionally ignoring case,
* Numeric -- int64, then float64; non-numbers first,
* Natural -- digit runs compare by value ("a2" < "a10"),
* NaturalTruncating -- Natural with the historical rule
  that a digit run overflowing int64 counts as zero,
* Spreadsheet -- the order of sortkey encoded keys:
  negative numbers, non-negative numbers, then text
  ignoring case.


Design

There are three procedures:

1. stable sorting (the default): chunks of the input are
sorted concurrently with a stable algorithm and merged
pairwise, preferring the left run on ties. Rows with equal
keys keep their input order.

2. fast sorting (Mode.Faster): a parallel variant of
quicksort running on a ThreadPool. It does not allocate
beyond the key slices and leaves the relative order of
equal rows unspecified. It honours a Limit by skipping
subranges that fall outside of it.

3. random permutation (Mode.Random): a Fisher-Yates
shuffle drawing from one of the sources of package
shuffle. Nothing is compared.

Unique output is produced while writing the sorted rows
out: a row is dropped when it compares equal to the last
row kept. After a stable sort the survivor of every group
of equal rows is the one that came first in the input;
after a fast sort it is an arbitrary member of the group.

All the parallelism of a call is bounded by the
RuntimeParameters passed to it. There is no process-wide
state, so independent sorts may run concurrently.
*/
package sorting
