package geocode

// hardcodedPorts is the built-in port-name fallback tier,
// covering major seaports that public geocoders resolve unreliably.
// Coordinates are lon,lat to match the rest of this package's convention.
var hardcodedPorts = map[string]Result{
	"Port of Houston":        {Lon: -95.297241, Lat: 29.614658, Country: "USA"},
	"Port of Seattle-Tacoma": {Lon: -122.3375, Lat: 47.5703, Country: "USA"},
	"Port of Jebel Ali":      {Lon: 55.0272904, Lat: 25.0013084, Country: "UAE"},
	"Mumbai Port":            {Lon: 72.8321, Lat: 18.9517, Country: "India"},
	"Port of Shanghai":       {Lon: 121.677966, Lat: 31.230416, Country: "China"},
}
