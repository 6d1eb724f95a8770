// Package kmz packages a point document as a zip-compressed KML archive
// and reads such archives back, best-effort for files produced by other
// tools.
package kmz

import "encoding/xml"

// Namespace is the KML 2.2 XML namespace.
const Namespace = "http://www.opengis.net/kml/2.2"

// markupName is the fixed internal path of the markup document inside
// the archive, the same name Google Earth uses.
const markupName = "doc.kml"

// iconName is the archive path of an embedded placemark icon.
const iconName = "files/icon.png"

// defaultStyleID is the shared style placemarks reference when the
// archive carries a custom icon.
const defaultStyleID = "pointStyle"

// kml is the markup root element.
type kml struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

// kmlDocument carries the document name, shared styles and placemarks.
// Field names are unqualified so foreign namespaced documents still
// match by local element name.
type kmlDocument struct {
	Name       string         `xml:"name,omitempty"`
	Styles     []kmlStyle     `xml:"Style,omitempty"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlStyle struct {
	ID        string        `xml:"id,attr"`
	IconStyle *kmlIconStyle `xml:"IconStyle,omitempty"`
}

type kmlIconStyle struct {
	Icon kmlIcon `xml:"Icon"`
}

type kmlIcon struct {
	Href string `xml:"href"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"description,omitempty"`
	StyleURL    string    `xml:"styleUrl,omitempty"`
	Point       *kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	// "lon,lat" or "lon,lat,alt" in decimal degrees.
	Coordinates string `xml:"coordinates"`
}
