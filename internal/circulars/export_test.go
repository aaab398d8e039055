package circulars

var ContentText = contentText
