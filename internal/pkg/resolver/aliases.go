package resolver

// DefaultAliases covers the spellings found in INE, ISTAC and Eurostat
// exports for the built-in reference tables. Groups whose names are absent
// from a table are ignored by that table's Resolver.
var DefaultAliases = AliasTable{
	// autonomous communities
	"Andalucía":              {"Andalusia", "Andalousie"},
	"Aragón":                 {"Aragon", "Aragó"},
	"Principado de Asturias": {"Asturias", "Asturias, Principado de", "Asturies", "Principality of Asturias"},
	"Islas Baleares": {
		"Illes Balears", "Illes Balears / Islas Baleares", "Islas Baleares / Illes Balears",
		"Balears, Illes", "Balearic Islands", "Baleares",
	},
	"Canarias":           {"Islas Canarias", "Canary Islands", "Canarias (Islas)"},
	"Castilla y León":    {"Castilla-León", "Castile and León", "Castilla y Leon"},
	"Castilla-La Mancha": {"Castilla - La Mancha", "Castilla La Mancha", "Castile-La Mancha"},
	"Cataluña":           {"Catalunya", "Catalonia", "Catalogne"},
	"Comunitat Valenciana": {
		"Comunidad Valenciana", "Valenciana, Comunitat", "Valencian Community", "C. Valenciana",
		"Comunitat Valenciana / Comunidad Valenciana",
	},
	"Galicia":             {"Galiza"},
	"Comunidad de Madrid": {"Madrid, Comunidad de", "Community of Madrid", "C. de Madrid"},
	"Región de Murcia":    {"Murcia, Región de", "Region of Murcia", "Murcia (Región de)"},
	"Comunidad Foral de Navarra": {
		"Navarra", "Nafarroa", "Navarra, Comunidad Foral de", "Foral Community of Navarre", "Navarre",
	},
	"País Vasco": {"Euskadi", "Basque Country", "País Vasco / Euskadi", "Euskal Herria"},
	"La Rioja":   {"Rioja, La", "Rioja"},
	"Ceuta":      {"Ciudad Autónoma de Ceuta", "Ceuta (Ciudad Autónoma de)"},
	"Melilla":    {"Ciudad Autónoma de Melilla", "Melilla (Ciudad Autónoma de)"},
	"España":     {"Total Nacional", "Total España", "Nacional"},

	// provinces
	"Araba/Álava":            {"Álava", "Araba", "Alava"},
	"Alicante/Alacant":       {"Alicante", "Alacant"},
	"Castellón/Castelló":     {"Castellón", "Castelló", "Castellon"},
	"Valencia/València":      {"València", "Valencia"},
	"A Coruña":               {"Coruña, A", "La Coruña", "Coruna"},
	"Gipuzkoa":               {"Guipúzcoa", "Guipuzcoa"},
	"Bizkaia":                {"Vizcaya"},
	"Girona":                 {"Gerona"},
	"Lleida":                 {"Lérida"},
	"Ourense":                {"Orense"},
	"Las Palmas":             {"Palmas, Las"},
	"Santa Cruz de Tenerife": {"S.C. Tenerife", "Tenerife"},

	// countries
	"Alemania":            {"Germany (until 1990 former territory of the FRG)", "Deutschland"},
	"Chequia":             {"Czech Republic", "República Checa", "Czechia"},
	"Grecia":              {"Greece", "Hellas", "EL"},
	"Reino Unido":         {"United Kingdom", "UK", "Great Britain"},
	"Países Bajos":        {"Netherlands", "Holanda", "Nederland", "The Netherlands"},
	"Turquía":             {"Türkiye", "Turkey"},
	"Macedonia del Norte": {"North Macedonia", "Macedonia", "Former Yugoslav Republic of Macedonia"},
	"Eslovaquia":          {"Slovak Republic"},
	"Unión Europea (27)": {
		"EU27_2020", "EU27", "EU-27", "UE-27", "UE27", "European Union - 27 countries (from 2020)",
		"European Union (27)", "Unión Europea",
	},
}
