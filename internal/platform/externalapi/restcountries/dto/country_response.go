// Package dto はREST Countries APIのレスポンス形式を定義します。
package dto

// CountryResponse は /alpha/{code} と /name/{name} が返す配列の要素です。
// 使用するフィールドのみを定義します。
type CountryResponse struct {
	CCA2 string `json:"cca2"`
	CCA3 string `json:"cca3"`
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Flag       string   `json:"flag"`
	Region     string   `json:"region"`
	Capital    []string `json:"capital"`
	Population int64    `json:"population"`
}
