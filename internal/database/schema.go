package database

import _ "embed"

// Schema はstudentsテーブルのDDL。
// マイグレーションは行わないため、docker-composeの初期化スクリプトとテストのみが使う。
//
//go:embed schema.sql
var Schema string
