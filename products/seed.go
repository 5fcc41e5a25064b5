package products

import "progressgarant/models"

// Categories as shown in the catalog filter, "Все товары" first.
var Categories = []string{
	"Все товары",
	"Кабель и провод",
	"Автоматика",
	"Розетки и выключатели",
	"Освещение",
	"Удлинители",
	"Монтаж",
}

var Brands = []string{
	"Все бренды",
	"Schneider Electric",
	"IEK",
	"EKF",
	"Legrand",
	"WAGO",
	"Gauss",
	"Navigator",
	"SVEN",
	"Камкабель",
	"РЭК-PRYSMIAN",
}

// seedCatalog is the fixed initial product set, loaded on first-ever use of
// the substrate. Ids "1".."12" are stable and reserved.
var seedCatalog = []models.Product{
	{
		ID:          "1",
		Name:        "Кабель ВВГнг-LS 3×2.5 (10 м)",
		Price:       1850,
		Image:       "/img/products/kabel-vvgng-3x25.png",
		Category:    "Кабель и провод",
		Description: "Медный силовой кабель для внутренней проводки",
		InStock:     true,
		Brand:       "Камкабель",
		Volume:      "10 м",
	},
	{
		ID:          "2",
		Name:        "Провод ПВС 2×1.5 (20 м)",
		Price:       1250,
		Image:       "/img/products/provod-pvs-2x15.png",
		Category:    "Кабель и провод",
		Description: "Гибкий провод для удлинителей и бытовых подключений",
		InStock:     true,
		Brand:       "РЭК-PRYSMIAN",
		Volume:      "20 м",
	},
	{
		ID:          "3",
		Name:        "Автоматический выключатель 16А (1P, C)",
		Price:       420,
		Image:       "/img/products/avtomat-16a.png",
		Category:    "Автоматика",
		Description: "Защита линии от перегрузки и короткого замыкания",
		InStock:     true,
		Brand:       "IEK",
		Volume:      "16А",
	},
	{
		ID:          "4",
		Name:        "УЗО 40А / 30мА (2P)",
		Price:       1890,
		Image:       "/img/products/uzo-40a.png",
		Category:    "Автоматика",
		Description: "Защита от утечек тока, повышает электробезопасность",
		InStock:     true,
		Brand:       "Schneider Electric",
		Volume:      "40А",
	},
	{
		ID:          "5",
		Name:        "Розетка двойная с заземлением",
		Price:       360,
		Image:       "/img/products/rozetka-dvoynaya.png",
		Category:    "Розетки и выключатели",
		Description: "Надежная двойная розетка для бытовых нагрузок",
		InStock:     true,
		Brand:       "Legrand",
		Volume:      "2 поста",
	},
	{
		ID:          "6",
		Name:        "Выключатель одноклавишный",
		Price:       210,
		Image:       "/img/products/vyklyuchatel.png",
		Category:    "Розетки и выключатели",
		Description: "Классический выключатель для освещения",
		InStock:     true,
		Brand:       "IEK",
		Volume:      "1 клавиша",
	},
	{
		ID:          "7",
		Name:        "Лампа LED A60 10W E27 (тёплый свет)",
		Price:       140,
		Image:       "/img/products/lampa-led-a60.png",
		Category:    "Освещение",
		Description: "Энергоэффективная светодиодная лампа для дома",
		InStock:     true,
		Brand:       "Gauss",
		Volume:      "10W",
	},
	{
		ID:          "8",
		Name:        "Светодиодный прожектор 30W IP65",
		Price:       990,
		Image:       "/img/products/prozhektor-30w.png",
		Category:    "Освещение",
		Description: "Прожектор для улицы и подсветки территории",
		InStock:     true,
		Brand:       "Navigator",
		Volume:      "30W",
	},
	{
		ID:          "9",
		Name:        "Удлинитель 5 розеток (3 м) с выключателем",
		Price:       780,
		Image:       "/img/products/udlinitel-5.png",
		Category:    "Удлинители",
		Description: "Удобный удлинитель для дома и офиса",
		InStock:     true,
		Brand:       "SVEN",
		Volume:      "3 м",
	},
	{
		ID:          "10",
		Name:        "Вилка с заземлением (белая)",
		Price:       110,
		Image:       "/img/products/vilka.png",
		Category:    "Монтаж",
		Description: "Вилка для сборки удлинителей и подключений",
		InStock:     true,
		Brand:       "EKF",
	},
	{
		ID:          "11",
		Name:        "Клеммы WAGO 221 (набор)",
		Price:       450,
		Image:       "/img/products/klemmy-wago.png",
		Category:    "Монтаж",
		Description: "Быстрое и надежное соединение проводов",
		InStock:     true,
		Brand:       "WAGO",
	},
	{
		ID:          "12",
		Name:        "Коробка распределительная (IP54)",
		Price:       160,
		Image:       "/img/products/korobka-ip54.png",
		Category:    "Монтаж",
		Description: "Распределительная коробка для соединений и защиты",
		InStock:     true,
		Brand:       "IEK",
	},
}

// SeedCatalog returns a copy of the fixed seed set.
func SeedCatalog() []models.Product {
	out := make([]models.Product, len(seedCatalog))
	copy(out, seedCatalog)
	return out
}
