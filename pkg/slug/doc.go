// Package slug turns display names into short identifiers suitable for
// URLs and unique keys, such as the short name of a permission group.
//
//	slug.Make("Administración General")              // "administracion-general"
//	slug.Make("Fish & Chips", slug.Separator("_"))   // "fish_chips"
//	slug.Make("Un título muy largo", slug.MaxLength(9)) // "un-titulo"
//
// Diacritics are folded to ASCII with Unicode decomposition. Letters
// without an ASCII form become separators.
package slug
