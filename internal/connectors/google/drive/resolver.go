package drive

// ResolveWebURL returns a browser link for a Drive file. The link reported
// by the API is preferred; when the listing did not include one, the file
// ID is turned into a standard viewer URL.
func ResolveWebURL(fileID, webLink string) string {
	if webLink != "" {
		return webLink
	}
	if fileID == "" {
		return ""
	}
	return "https://drive.google.com/file/d/" + fileID + "/view"
}
