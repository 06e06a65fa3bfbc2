package reference

import "github.com/ougirez/rdatlas/internal/domain"

func country(code, iso3, es, en string, alt ...string) domain.CanonicalEntity {
	return domain.CanonicalEntity{
		ID:       code,
		Kind:     domain.EntityCountry,
		Name:     domain.LocalizedName{ES: es, EN: en},
		Code:     code,
		ISO3:     iso3,
		AltCodes: alt,
	}
}

func community(nuts, ine, iso, es, en string) domain.CanonicalEntity {
	return domain.CanonicalEntity{
		ID:       nuts,
		Kind:     domain.EntityCommunity,
		Name:     domain.LocalizedName{ES: es, EN: en},
		Code:     nuts,
		AltCodes: []string{ine, iso},
		Parent:   spain.ID,
	}
}

func province(ine, parent, es, en string) domain.CanonicalEntity {
	return domain.CanonicalEntity{
		ID:     "P" + ine,
		Kind:   domain.EntityProvince,
		Name:   domain.LocalizedName{ES: es, EN: en},
		Code:   ine,
		Parent: parent,
	}
}

var spain = country("ES", "ESP", "España", "Spain")

var eu27 = domain.CanonicalEntity{
	ID:   "EU27_2020",
	Kind: domain.EntityAggregate,
	Name: domain.LocalizedName{ES: "Unión Europea (27)", EN: "European Union - 27 countries (from 2020)"},
	Code: "EU27_2020",
}

// EU member states first, then the other countries Eurostat reports on.
var countries = []domain.CanonicalEntity{
	country("AT", "AUT", "Austria", "Austria"),
	country("BE", "BEL", "Bélgica", "Belgium"),
	country("BG", "BGR", "Bulgaria", "Bulgaria"),
	country("HR", "HRV", "Croacia", "Croatia"),
	country("CY", "CYP", "Chipre", "Cyprus"),
	country("CZ", "CZE", "Chequia", "Czechia"),
	country("DK", "DNK", "Dinamarca", "Denmark"),
	country("EE", "EST", "Estonia", "Estonia"),
	country("FI", "FIN", "Finlandia", "Finland"),
	country("FR", "FRA", "Francia", "France"),
	country("DE", "DEU", "Alemania", "Germany"),
	country("GR", "GRC", "Grecia", "Greece", "EL"),
	country("HU", "HUN", "Hungría", "Hungary"),
	country("IE", "IRL", "Irlanda", "Ireland"),
	country("IT", "ITA", "Italia", "Italy"),
	country("LV", "LVA", "Letonia", "Latvia"),
	country("LT", "LTU", "Lituania", "Lithuania"),
	country("LU", "LUX", "Luxemburgo", "Luxembourg"),
	country("MT", "MLT", "Malta", "Malta"),
	country("NL", "NLD", "Países Bajos", "Netherlands"),
	country("PL", "POL", "Polonia", "Poland"),
	country("PT", "PRT", "Portugal", "Portugal"),
	country("RO", "ROU", "Rumanía", "Romania"),
	country("SK", "SVK", "Eslovaquia", "Slovakia"),
	country("SI", "SVN", "Eslovenia", "Slovenia"),
	spain,
	country("SE", "SWE", "Suecia", "Sweden"),
	country("NO", "NOR", "Noruega", "Norway"),
	country("IS", "ISL", "Islandia", "Iceland"),
	country("CH", "CHE", "Suiza", "Switzerland"),
	country("GB", "GBR", "Reino Unido", "United Kingdom", "UK"),
	country("TR", "TUR", "Turquía", "Türkiye"),
	country("RS", "SRB", "Serbia", "Serbia"),
	country("ME", "MNE", "Montenegro", "Montenegro"),
	country("MK", "MKD", "Macedonia del Norte", "North Macedonia"),
	country("AL", "ALB", "Albania", "Albania"),
	country("BA", "BIH", "Bosnia y Herzegovina", "Bosnia and Herzegovina"),
}

var eu27Members = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {}, "EE": {}, "FI": {},
	"FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {}, "IT": {}, "LV": {}, "LT": {}, "LU": {},
	"MT": {}, "NL": {}, "PL": {}, "PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// Autonomous communities and cities in NUTS order.
var communities = []domain.CanonicalEntity{
	community("ES11", "12", "ES-GA", "Galicia", "Galicia"),
	community("ES12", "03", "ES-AS", "Principado de Asturias", "Principality of Asturias"),
	community("ES13", "06", "ES-CB", "Cantabria", "Cantabria"),
	community("ES21", "16", "ES-PV", "País Vasco", "Basque Country"),
	community("ES22", "15", "ES-NC", "Comunidad Foral de Navarra", "Navarre"),
	community("ES23", "17", "ES-RI", "La Rioja", "La Rioja"),
	community("ES24", "02", "ES-AR", "Aragón", "Aragon"),
	community("ES30", "13", "ES-MD", "Comunidad de Madrid", "Community of Madrid"),
	community("ES41", "07", "ES-CL", "Castilla y León", "Castile and León"),
	community("ES42", "08", "ES-CM", "Castilla-La Mancha", "Castile-La Mancha"),
	community("ES43", "11", "ES-EX", "Extremadura", "Extremadura"),
	community("ES51", "09", "ES-CT", "Cataluña", "Catalonia"),
	community("ES52", "10", "ES-VC", "Comunitat Valenciana", "Valencian Community"),
	community("ES53", "04", "ES-IB", "Illes Balears", "Balearic Islands"),
	community("ES61", "01", "ES-AN", "Andalucía", "Andalusia"),
	community("ES62", "14", "ES-MC", "Región de Murcia", "Region of Murcia"),
	community("ES63", "18", "ES-CE", "Ceuta", "Ceuta"),
	community("ES64", "19", "ES-ML", "Melilla", "Melilla"),
	community("ES70", "05", "ES-CN", "Canarias", "Canary Islands"),
}

// Provinces keyed by INE code, each assigned to its community.
var provinces = []domain.CanonicalEntity{
	province("01", "ES21", "Araba/Álava", "Álava"),
	province("02", "ES42", "Albacete", "Albacete"),
	province("03", "ES52", "Alicante/Alacant", "Alicante"),
	province("04", "ES61", "Almería", "Almería"),
	province("05", "ES41", "Ávila", "Ávila"),
	province("06", "ES43", "Badajoz", "Badajoz"),
	province("07", "ES53", "Illes Balears", "Balearic Islands"),
	province("08", "ES51", "Barcelona", "Barcelona"),
	province("09", "ES41", "Burgos", "Burgos"),
	province("10", "ES43", "Cáceres", "Cáceres"),
	province("11", "ES61", "Cádiz", "Cádiz"),
	province("12", "ES52", "Castellón/Castelló", "Castellón"),
	province("13", "ES42", "Ciudad Real", "Ciudad Real"),
	province("14", "ES61", "Córdoba", "Córdoba"),
	province("15", "ES11", "A Coruña", "A Coruña"),
	province("16", "ES42", "Cuenca", "Cuenca"),
	province("17", "ES51", "Girona", "Girona"),
	province("18", "ES61", "Granada", "Granada"),
	province("19", "ES42", "Guadalajara", "Guadalajara"),
	province("20", "ES21", "Gipuzkoa", "Gipuzkoa"),
	province("21", "ES61", "Huelva", "Huelva"),
	province("22", "ES24", "Huesca", "Huesca"),
	province("23", "ES61", "Jaén", "Jaén"),
	province("24", "ES41", "León", "León"),
	province("25", "ES51", "Lleida", "Lleida"),
	province("26", "ES23", "La Rioja", "La Rioja"),
	province("27", "ES11", "Lugo", "Lugo"),
	province("28", "ES30", "Madrid", "Madrid"),
	province("29", "ES61", "Málaga", "Málaga"),
	province("30", "ES62", "Murcia", "Murcia"),
	province("31", "ES22", "Navarra", "Navarre"),
	province("32", "ES11", "Ourense", "Ourense"),
	province("33", "ES12", "Asturias", "Asturias"),
	province("34", "ES41", "Palencia", "Palencia"),
	province("35", "ES70", "Las Palmas", "Las Palmas"),
	province("36", "ES11", "Pontevedra", "Pontevedra"),
	province("37", "ES41", "Salamanca", "Salamanca"),
	province("38", "ES70", "Santa Cruz de Tenerife", "Santa Cruz de Tenerife"),
	province("39", "ES13", "Cantabria", "Cantabria"),
	province("40", "ES41", "Segovia", "Segovia"),
	province("41", "ES61", "Sevilla", "Seville"),
	province("42", "ES41", "Soria", "Soria"),
	province("43", "ES51", "Tarragona", "Tarragona"),
	province("44", "ES24", "Teruel", "Teruel"),
	province("45", "ES42", "Toledo", "Toledo"),
	province("46", "ES52", "Valencia/València", "Valencia"),
	province("47", "ES41", "Valladolid", "Valladolid"),
	province("48", "ES21", "Bizkaia", "Biscay"),
	province("49", "ES41", "Zamora", "Zamora"),
	province("50", "ES24", "Zaragoza", "Zaragoza"),
	province("51", "ES63", "Ceuta", "Ceuta"),
	province("52", "ES64", "Melilla", "Melilla"),
}
