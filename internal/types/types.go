package types

import (
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/joeblew999/fontdue/pkg/store"
)

type FontListRequest struct {
	Query  string `form:"q,optional"`
	Source string `form:"source,optional"`
}

type FontListResponse struct {
	Fonts []font.AppFont `json:"fonts"`
	Total int            `json:"total"`
}

type FontPathRequest struct {
	Id string `path:"id"`
}

type AddCatalogFontRequest struct {
	Source  string `json:"source"`
	Id      string `json:"id,optional"`
	Family  string `json:"family,optional"`
	Weights []int  `json:"weights,optional"`
}

type AddCdnFontRequest struct {
	Name   string `json:"name"`
	Family string `json:"family"`
	Url    string `json:"url"`
}

type AddLocalFontRequest struct {
	Family   string `json:"family"`
	FullName string `json:"fullName,optional"`
	System   bool   `json:"system,optional"`
}

type SelectFontRequest struct {
	Id string `json:"id"`
}

type StatusResponse struct {
	Ok bool `json:"ok"`
}

type CatalogRequest struct {
	Source   string `path:"source"`
	Tier     string `form:"tier,optional"`
	Query    string `form:"q,optional"`
	Category string `form:"category,optional"`
}

type CatalogResponse struct {
	Source     string             `json:"source"`
	SourceName string             `json:"sourceName"`
	SourceUrl  string             `json:"sourceUrl"`
	Tier       string             `json:"tier"`
	Total      int                `json:"total"`
	Fonts      []font.CatalogFont `json:"fonts"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type RefreshRequest struct {
	Source string `path:"source"`
}

type RefreshJobResponse struct {
	Id          string `json:"id"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"maxAttempts"`
	FontCount   int    `json:"fontCount"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"createdAt"`
	FinishedAt  string `json:"finishedAt,omitempty"`
}

type JobListRequest struct {
	Status string `form:"status,optional"`
	Limit  int    `form:"limit,default=50"`
}

type JobListResponse struct {
	Jobs  []RefreshJobResponse `json:"jobs"`
	Stats map[string]int       `json:"stats"`
}

type JobPathRequest struct {
	Id string `path:"id"`
}

type PersistedCatalogsResponse struct {
	Catalogs []store.CatalogInfo `json:"catalogs"`
}

type LoadStateResponse struct {
	Id    string `json:"id"`
	State string `json:"state"`
}

type LoaderStateResponse struct {
	Loaded    []string      `json:"loaded"`
	Head      []loader.Node `json:"head"`
	RootStyle string        `json:"rootStyle"`
}

type BatchLoadResponse struct {
	Loaded int `json:"loaded"`
	Failed int `json:"failed"`
}

type LocalFontsResponse struct {
	Fonts []font.LocalDescriptor `json:"fonts"`
}
