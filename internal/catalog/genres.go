package catalog

import "golang.org/x/text/language"

var (
	genreLanguages = []language.Tag{language.English, language.Japanese}
	genreMatcher   = language.NewMatcher(genreLanguages)
)

var genreNames = map[language.Tag]map[int]string{
	language.English: {
		28:    "Action",
		12:    "Adventure",
		16:    "Animation",
		35:    "Comedy",
		80:    "Crime",
		99:    "Documentary",
		18:    "Drama",
		10751: "Family",
		14:    "Fantasy",
		36:    "History",
		27:    "Horror",
		10402: "Music",
		9648:  "Mystery",
		10749: "Romance",
		878:   "Science Fiction",
		10770: "TV Movie",
		53:    "Thriller",
		10752: "War",
		37:    "Western",
	},
	language.Japanese: {
		28:    "アクション",
		12:    "アドベンチャー",
		16:    "アニメーション",
		35:    "コメディ",
		80:    "犯罪",
		99:    "ドキュメンタリー",
		18:    "ドラマ",
		10751: "ファミリー",
		14:    "ファンタジー",
		36:    "歴史",
		27:    "ホラー",
		10402: "音楽",
		9648:  "ミステリー",
		10749: "ロマンス",
		878:   "SF",
		10770: "テレビ映画",
		53:    "スリラー",
		10752: "戦争",
		37:    "西部劇",
	},
}

var unknownGenre = map[language.Tag]string{
	language.English:  "Unknown",
	language.Japanese: "不明",
}

// GenreName maps a TMDB genre id to its name in the closest supported language
func GenreName(id int, lang language.Tag) string {
	_, i, _ := genreMatcher.Match(lang)
	tag := genreLanguages[i]
	if name, ok := genreNames[tag][id]; ok {
		return name
	}
	return unknownGenre[tag]
}
