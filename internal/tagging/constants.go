// Package tagging generates descriptive tags for an indexed file by
// combining path context, content keywords, and extension class, then
// optionally merges in tags suggested by an LLM provider.
package tagging

// commonDirectoryNames are directory names too generic to carry tagging
// signal and are skipped when walking a path's ancestors.
var commonDirectoryNames = map[string]bool{
	"documents": true, "downloads": true, "desktop": true, "pictures": true,
	"music": true, "videos": true, "home": true, "user": true, "users": true,
	"tmp": true, "temp": true, "cache": true, "data": true, "files": true,
	"folder": true, "folders": true, "file": true, "dir": true, "directory": true,
	"src": true, "lib": true, "code": true, "projects": true,
}

// keywordMappings maps a substring that may appear in lowercased file
// content to an additional normalized tag. Order matters: it is the order
// tags are unioned in, first occurrence wins for dedup purposes.
var keywordMappings = []struct {
	keyword string
	tag     string
}{
	{"todo", "task"},
	{"meeting", "calendar"},
	{"code", "programming"},
	{"bug", "issue"},
	{"feature", "enhancement"},
	{"api", "integration"},
	{"invoice", "financial"},
	{"receipt", "financial"},
	{"bill", "financial"},
	{"statement", "financial"},
	{"payment", "financial"},
	{"tax", "financial"},
	{"report", "reporting"},
	{"contract", "legal"},
	{"nda", "legal"},
	{"resume", "career"},
	{"cv", "career"},
	{"notes", "notes"},
	{"draft", "draft"},
}

// extensionClasses maps a lowercased, dot-free extension to its top-level
// category tag.
var extensionClasses = map[string]string{
	"pdf": "document", "doc": "document", "docx": "document",
	"jpg": "image", "jpeg": "image", "png": "image", "gif": "image", "webp": "image", "heic": "image",
	"mp4": "video", "avi": "video", "mov": "video", "mkv": "video",
	"mp3": "audio", "wav": "audio", "flac": "audio", "m4a": "audio",
	"zip": "archive", "tar": "archive", "gz": "archive", "rar": "archive", "7z": "archive",
	"xls": "spreadsheet", "xlsx": "spreadsheet", "csv": "spreadsheet",
}
