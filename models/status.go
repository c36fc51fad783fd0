package models

type StatusResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
