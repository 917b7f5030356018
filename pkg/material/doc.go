// Package material answers material-availability questions: normalized
// color lookup and available grams per color, aggregated from color
// inventory records with spools as a fallback source.
package material
