// Package extract turns fetched HTML into structured records. Each parser
// walks an ordered chain of selectors from most to least specific and uses
// the first one that matches, so a directory markup change degrades the
// result instead of breaking the run. Parse failures never surface as
// errors; a field that cannot be read is left empty.
package extract
