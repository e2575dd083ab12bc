// Package roster discovers organizational team pages, extracts structured
// person profiles from them, deduplicates the results, and answers questions
// about the people it has found.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package roster
