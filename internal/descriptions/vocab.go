package descriptions

// Attribute categories extracted from product descriptions.
const (
	CategoryGarment  = "tipo_prenda"
	CategorySleeve   = "manga"
	CategoryNeckline = "cuello"
	CategoryFabric   = "tejido"
	CategoryDetail   = "detalle"
	CategoryStyle    = "estilo"
	CategoryCut      = "corte"
	CategoryColor    = "color"
)

// Categories lists the extraction categories in display order.
var Categories = []string{
	CategoryGarment,
	CategorySleeve,
	CategoryNeckline,
	CategoryFabric,
	CategoryDetail,
	CategoryStyle,
	CategoryCut,
	CategoryColor,
}

// stopwords removed during text cleaning. "de" and "con" are kept because
// the vocabulary phrases use them.
var stopwords = map[string]bool{
	"y": true, "o": true,
	"el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "unos": true, "unas": true,
}

// synonyms maps variant phrasings to their canonical form. Applied after
// cleaning and before phrase matching.
var synonyms = map[string]string{
	// garment types
	"playera":  "camiseta",
	"remera":   "camiseta",
	"t-shirt":  "camiseta",
	"suéter":   "jersey",
	"pulóver":  "jersey",
	"chaquetón": "abrigo",
	"gilet":    "chaleco",
	"pantalones": "pantalón",

	// sleeves
	"manga extendida":   "manga larga",
	"manga breve":       "manga corta",
	"manga tres cuartos": "manga francesa",
	"manga globo":       "manga farol",
	"manga raglán":      "manga ranglán",
	"sisa":              "sin mangas",

	// necklines
	"escote redondo":          "cuello redondo",
	"cuello en v":             "cuello pico",
	"escote en v":             "cuello pico",
	"escote barco":            "cuello barco",
	"cuello tortuga":          "cuello cisne",
	"escote corazón":          "cuello sweetheart",
	"escote palabra de honor": "cuello palabra de honor",

	// fabrics
	"mezclilla": "denim",
	"cotton":    "algodón",
	"silk":      "seda",
	"wool":      "lana",
	"polyester": "poliéster",
	"spandex":   "elastano",
	"lycra":     "elastano",
	"puntilla":  "encaje",
	"cashmere":  "cachemira",
	"gamuza":    "ante",
	"piel":      "cuero",

	// details
	"pailletes":           "lentejuelas",
	"efecto transparente": "transparencias",

	// style
	"bohemio":      "boho",
	"informal":     "casual",
	"sofisticado":  "elegante",
	"chic":         "elegante",
	"deportivo":    "sport",
	"amplio":       "oversized",
	"extra grande": "oversized",
	"recortado":    "cropped",

	// cuts
	"línea a":      "corte evasé",
	"slim fit":     "corte entallado",
	"línea recta":  "corte recto",
	"talle alto":   "tiro alto",

	// colors
	"black":      "negro",
	"white":      "blanco",
	"red":        "rojo",
	"blue":       "azul",
	"green":      "verde",
	"yellow":     "amarillo",
	"pink":       "rosa",
	"lila":       "morado",
	"violeta":    "morado",
	"anaranjado": "naranja",
	"crema":      "beige",
	"arena":      "beige",
	"plomo":      "gris",
	"gray":       "gris",
	"café":       "marrón",
	"chocolate":  "marrón",
	"oro":        "dorado",
	"plata":      "plateado",
	"navy":       "azul marino",
	"vino":       "burdeos",
}

// vocabulary holds the phrase terms per category. Matching is on cleaned,
// synonym-normalized text, longest phrase first.
var vocabulary = map[string][]string{
	CategoryGarment: {
		"abrigo", "anorak", "blazer", "blusa", "body", "camisa", "camiseta",
		"cárdigan", "chal", "chaleco", "chaqueta", "chubasquero", "falda",
		"gabardina", "jersey", "kimono", "mono", "pantalón", "peto", "polo",
		"top", "traje", "vestido", "camisón",
	},
	CategorySleeve: {
		"manga larga con abertura lateral", "manga con puño elástico",
		"manga corta con volante", "manga francesa ajustada", "manga larga globo",
		"manga corta plisada", "manga con lazada", "manga acampanada",
		"manga abombada", "manga abullonada", "manga murciélago",
		"manga con volante", "manga con puño", "manga francesa", "manga plisada",
		"manga ranglán", "manga kimono", "manga fruncida", "manga corta",
		"manga larga", "manga farol", "manga jamón", "sin mangas",
	},
	CategoryNeckline: {
		"cuello palabra de honor", "cuello drapeado amplio",
		"cuello camisero abierto", "cuello barco ancho", "cuello con botones",
		"cuello con volante", "cuello de encaje", "cuello sweetheart",
		"cuello asimétrico", "cuello camisero", "cuello chimenea",
		"cuello cuadrado", "cuello drapeado", "cuello plisado",
		"cuello con lazo", "cuello redondo", "cuello smoking", "cuello cruzado",
		"cuello halter", "cuello perkins", "cuello cisne", "cuello barco",
		"cuello alto", "cuello caja", "cuello pico", "cuello polo", "cuello mao",
	},
	CategoryFabric: {
		"algodón", "ante", "cachemira", "canalé", "chiffon", "cuero", "denim",
		"elastano", "encaje", "gasa", "jacquard", "lana", "lino", "malla",
		"organza", "poliéster", "punto", "satén", "seda", "terciopelo",
		"tweed", "tul", "viscosa",
	},
	CategoryDetail: {
		"detalle con paillettes", "detalle con tachuelas", "detalle con cadenas",
		"aberturas laterales", "botones decorativos", "bordado artesanal",
		"pinzas en cintura", "bajo redondeado", "nudo frontal",
		"transparencias", "lentejuelas", "con bolsillos", "pedrería",
		"volantes", "bordado", "fruncido", "plisado", "drapeado", "perlas",
		"tachuelas", "lazo",
	},
	CategoryStyle: {
		"minimalista", "romántico", "oversized", "elegante", "vintage",
		"cropped", "casual", "formal", "sport", "urban", "boho",
	},
	CategoryCut: {
		"corte asimétrico", "corte acampanado", "corte entallado",
		"corte trapecio", "corte holgado", "corte imperio", "corte evasé",
		"corte globo", "corte recto", "corte midi", "corte mini",
		"corte maxi", "tiro alto",
	},
	CategoryColor: {
		"mostaza oscuro", "blanco crema", "azul marino", "verde oliva",
		"amarillo", "borgoña", "burdeos", "dorado", "marrón", "morado",
		"mostaza", "naranja", "plateado", "turquesa", "beige", "blanco",
		"coral", "negro", "verde", "azul", "gris", "rojo", "rosa",
	},
}
