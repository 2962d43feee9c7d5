package models

type TagType struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
