package addon

const (
	manifestID      = "org.knaben.privatestreams"
	manifestVersion = "4.0.0"
)

type Manifest struct {
	ID          string     `json:"id"`
	Version     string     `json:"version"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Resources   []string   `json:"resources"`
	Types       []string   `json:"types"`
	Catalogs    []struct{} `json:"catalogs"`
	IDPrefixes  []string   `json:"idPrefixes"`
}

func newManifest(label string) Manifest {
	return Manifest{
		ID:          manifestID,
		Version:     manifestVersion,
		Name:        label,
		Description: "Displays streams with seeders and file size for your own listings.",
		Resources:   []string{"stream"},
		Types:       []string{"series", "movie"},
		Catalogs:    []struct{}{},
		IDPrefixes:  []string{"tt"},
	}
}
